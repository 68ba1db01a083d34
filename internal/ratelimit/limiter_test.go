package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	l := New(1, 2, time.Minute)
	require.NotNil(t, l)
	now := time.Unix(1_700_000_000, 0)

	assert.True(t, l.Allow("alice", now))
	assert.True(t, l.Allow("alice", now))
	assert.False(t, l.Allow("alice", now))

	// other keys have their own bucket
	assert.True(t, l.Allow("bob", now))

	assert.True(t, l.Allow("alice", now.Add(time.Second)))
}

func TestLimiterNilAndBlankKeys(t *testing.T) {
	assert.Nil(t, New(0, 1, 0))
	assert.Nil(t, New(1, 0, 0))

	var l *Limiter
	assert.True(t, l.Allow("alice", time.Now()))
	assert.Zero(t, l.Len())

	l = New(1, 1, time.Minute)
	now := time.Now()
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("  ", now))
	}
	assert.Zero(t, l.Len())
}

func TestLimiterEvictsIdleKeys(t *testing.T) {
	l := New(10, 10, time.Minute)
	start := time.Unix(1_700_000_000, 0)
	for i := 0; i < sweepEvery-1; i++ {
		l.Allow(fmt.Sprintf("user-%d", i), start)
	}
	assert.Equal(t, sweepEvery-1, l.Len())

	// the sweep runs on this call, an hour after everyone else was seen
	l.Allow("late", start.Add(time.Hour))
	assert.Equal(t, 1, l.Len())
}
