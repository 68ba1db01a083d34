package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/rollbot/internal/dice"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(4)

	_, ok := st.Get(ctx, "2d6")
	assert.False(t, ok)

	roll := dice.Roll{Terms: []dice.Term{dice.Dice{Count: 2, Size: 6}}}
	require.NoError(t, st.Save(ctx, "2d6", roll))

	got, ok := st.Get(ctx, "2d6")
	require.True(t, ok)
	assert.Equal(t, roll, got)
}

func TestMemoryStoreIsBounded(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(3)
	for i := 0; i < 10; i++ {
		require.NoError(t, st.Save(ctx, fmt.Sprintf("%d", i), dice.Roll{Terms: []dice.Term{dice.Literal(i)}}))
	}
	assert.Len(t, st.(*memory).rolls, 3)

	// the newest entry always survives its own insert
	got, ok := st.Get(ctx, "9")
	require.True(t, ok)
	assert.Equal(t, dice.Roll{Terms: []dice.Term{dice.Literal(9)}}, got)
}

func TestMemoryStoreDisabled(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(0)
	require.NoError(t, st.Save(ctx, "d20", dice.Roll{}))
	_, ok := st.Get(ctx, "d20")
	assert.False(t, ok)
}

func TestMemoryStoreConcurrentUse(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("%d", i%4)
			_ = st.Save(ctx, key, dice.Roll{Terms: []dice.Term{dice.Literal(i)}})
			_, _ = st.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, len(st.(*memory).rolls), 8)
}
