package roller

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/rollbot/internal/dice"
	"github.com/robalobadob/rollbot/internal/store"
)

func newTestService(t *testing.T, limits Limits, faces ...uint32) (*Service, *Metrics) {
	t.Helper()
	m := NewMetrics(prometheus.NewRegistry())
	return New(Options{
		Limits:   limits,
		Source:   dice.Fixed(faces...),
		Cache:    store.NewMemoryStore(16),
		Metrics:  m,
		SeedSalt: "test-salt",
	}), m
}

func TestRollDirect(t *testing.T) {
	svc, m := newTestService(t, Limits{}, 1, 4)

	res, err := svc.Roll(context.Background(), Request{Expr: "2d6+3"})
	require.NoError(t, err)
	assert.Equal(t, "**1** 4 + 3 = 8", res.Text)
	assert.Equal(t, dice.Roll{Terms: []dice.Term{dice.Dice{Count: 2, Size: 6}, dice.Literal(3)}}, res.Roll)
	assert.EqualValues(t, 8, res.Outcome.Total())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingDirect, statusOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dice))
}

func TestRollSurfacesErrors(t *testing.T) {
	svc, m := newTestService(t, Limits{})
	ctx := context.Background()

	_, err := svc.Roll(ctx, Request{Expr: "hello"})
	require.Error(t, err)
	assert.True(t, dice.IsSyntax(err))

	_, err = svc.Roll(ctx, Request{Expr: "d0"})
	assert.ErrorIs(t, err, dice.ErrZeroFaces)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingDirect, statusSyntax)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingDirect, statusValidation)))
}

func TestRollLimits(t *testing.T) {
	svc, m := newTestService(t, Limits{MaxDice: 10, MaxAdvantage: 2, MaxInputLength: 16})
	ctx := context.Background()

	_, err := svc.Roll(ctx, Request{Expr: "6d6+5d6"})
	assert.ErrorIs(t, err, ErrTooManyDice)
	assert.Equal(t, "too many dice: 11 per roll, limit is 10", err.Error())

	_, err = svc.Roll(ctx, Request{Expr: "d20aaa"})
	assert.ErrorIs(t, err, ErrAdvantageTooLarge)
	_, err = svc.Roll(ctx, Request{Expr: "d20ddd"})
	assert.ErrorIs(t, err, ErrAdvantageTooLarge)

	_, err = svc.Roll(ctx, Request{Expr: strings.Repeat("1+", 9) + "1"})
	assert.ErrorIs(t, err, ErrInputTooLong)

	_, err = svc.Roll(ctx, Request{Expr: "10d6aa"})
	assert.NoError(t, err)

	// zero faces is reported as such even when other limits would trip
	_, err = svc.Roll(ctx, Request{Expr: "99d0"})
	assert.ErrorIs(t, err, dice.ErrZeroFaces)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingDirect, statusRejected)))
}

func TestRollSeedReplays(t *testing.T) {
	svc := New(Options{SeedSalt: "salt"})
	ctx := context.Background()

	a, err := svc.Roll(ctx, Request{Expr: "20d20aa", Seed: "session-7"})
	require.NoError(t, err)
	b, err := svc.Roll(ctx, Request{Expr: "20d20aa", Seed: "session-7"})
	require.NoError(t, err)
	assert.Equal(t, a.Text, b.Text)

	c, err := svc.Roll(ctx, Request{Expr: "20d20aa", Seed: "session-8"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Text, c.Text)
}

func TestScan(t *testing.T) {
	svc, m := newTestService(t, Limits{MaxDice: 10}, 15)
	ctx := context.Background()

	res, ok := svc.Scan(ctx, "r5")
	require.True(t, ok)
	assert.Equal(t, "15 + 5 = 20", res.Text)

	res, ok = svc.Scan(ctx, "R/for initiative")
	require.True(t, ok)
	assert.Equal(t, "15", res.Text)

	for _, text := range []string{"hello", "", "roll for it", "r 2d6", "rd0", "r99d6"} {
		_, ok := svc.Scan(ctx, text)
		assert.False(t, ok, text)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingTriggered, statusOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingTriggered, statusSyntax)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingTriggered, statusValidation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rolls.WithLabelValues(FramingTriggered, statusRejected)))
}

func TestParseCacheIsUsed(t *testing.T) {
	cache := store.NewMemoryStore(4)
	svc := New(Options{Cache: cache, Source: dice.Fixed(3)})
	ctx := context.Background()

	_, err := svc.Roll(ctx, Request{Expr: "d8a"})
	require.NoError(t, err)
	cached, ok := cache.Get(ctx, "d8a")
	require.True(t, ok)
	assert.Equal(t, 1, cached.Advantage)

	_, err = svc.Roll(ctx, Request{Expr: "nope"})
	require.Error(t, err)
	_, ok = cache.Get(ctx, "nope")
	assert.False(t, ok)
}

func TestNilMetrics(t *testing.T) {
	svc := New(Options{})
	_, err := svc.Roll(context.Background(), Request{Expr: "d20"})
	assert.NoError(t, err)
}
