package throttle_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstilehq/turnstile/pkg/throttle"
)

func TestHold(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("admits without consuming", func(t *testing.T) {
		t.Parallel()

		limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "10/hour"})
		require.NoError(t, err)

		res, drain, err := limiter.Hold(ctx, "hold", 3)
		require.NoError(t, err)
		require.True(t, res.Allowed())
		require.NotNil(t, drain)
		assert.False(t, drain.Drained())

		// Nothing subtracted yet: the full balance is still banked.
		assert.InDelta(t, 10, res.Remaining, 0.01)

		status, err := limiter.Status(ctx, "hold")
		require.NoError(t, err)
		assert.InDelta(t, 10, status.Remaining, 0.01)
	})

	t.Run("rejected request returns nil drain", func(t *testing.T) {
		t.Parallel()

		limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "1/hour"})
		require.NoError(t, err)

		res, drain, err := limiter.Hold(ctx, "over", 5)
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Nil(t, drain)
	})

	t.Run("store failure returns error and no drain", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		store.getErr = errors.New("connection refused")

		limiter, err := throttle.New(store, throttle.Config{Rate: "5/s"})
		require.NoError(t, err)

		_, drain, err := limiter.Hold(ctx, "err", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, throttle.ErrStoreGet)
		assert.Nil(t, drain)
	})
}

func TestDrainSubtractsExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "10/hour"})
	require.NoError(t, err)

	_, drain, err := limiter.Hold(ctx, "once", 3)
	require.NoError(t, err)
	require.NotNil(t, drain)

	require.NoError(t, drain.Drain(ctx))
	assert.True(t, drain.Drained())

	status, err := limiter.Status(ctx, "once")
	require.NoError(t, err)
	assert.InDelta(t, 7, status.Remaining, 0.01)

	// Draining again is a no-op, not a second subtraction.
	require.NoError(t, drain.Drain(ctx))
	require.NoError(t, drain.DrainN(ctx, 5))

	status, err = limiter.Status(ctx, "once")
	require.NoError(t, err)
	assert.InDelta(t, 7, status.Remaining, 0.01)
}

func TestDrainNOverridesCost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "10/hour"})
	require.NoError(t, err)

	_, drain, err := limiter.Hold(ctx, "override", 3)
	require.NoError(t, err)
	require.NotNil(t, drain)

	// The admission cost sized the decision; the real cost wins at drain time.
	require.NoError(t, drain.DrainN(ctx, 5))

	status, err := limiter.Status(ctx, "override")
	require.NoError(t, err)
	assert.InDelta(t, 5, status.Remaining, 0.01)
}

func TestDrainClampsAtZero(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "10/hour"})
	require.NoError(t, err)

	_, drain, err := limiter.Hold(ctx, "clamp", 2)
	require.NoError(t, err)
	require.NotNil(t, drain)

	require.NoError(t, drain.DrainN(ctx, 50))

	status, err := limiter.Status(ctx, "clamp")
	require.NoError(t, err)
	assert.InDelta(t, 0, status.Remaining, 0.01)

	res, err := limiter.Allow(ctx, "clamp")
	require.NoError(t, err)
	assert.False(t, res.Allowed(), "an overdrained bucket must not go negative")
}

func TestDrainFailureIsRetryable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store := newFakeStore()
	limiter, err := throttle.New(store, throttle.Config{Rate: "10/hour"})
	require.NoError(t, err)

	_, drain, err := limiter.Hold(ctx, "retry", 4)
	require.NoError(t, err)
	require.NotNil(t, drain)

	store.setErr = errors.New("connection refused")
	err = drain.Drain(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, throttle.ErrStoreSet)
	assert.False(t, drain.Drained(), "a failed drain must not spend the handle")

	store.setErr = nil
	require.NoError(t, drain.Drain(ctx))
	assert.True(t, drain.Drained())

	status, err := limiter.Status(ctx, "retry")
	require.NoError(t, err)
	assert.InDelta(t, 6, status.Remaining, 0.01)
}

func TestDrainNInvalidCost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "10/hour"})
	require.NoError(t, err)

	_, drain, err := limiter.Hold(ctx, "invalid", 2)
	require.NoError(t, err)
	require.NotNil(t, drain)

	for _, cost := range []float64{-1, math.NaN(), math.Inf(1)} {
		err := drain.DrainN(ctx, cost)
		require.Error(t, err)
		assert.ErrorIs(t, err, throttle.ErrInvalidCost)
	}
	assert.False(t, drain.Drained(), "invalid costs must not spend the handle")

	require.NoError(t, drain.Drain(ctx))
	assert.True(t, drain.Drained())
}

func TestNeverDrainingChargesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	limiter, err := throttle.New(throttle.NewMemoryStore(), throttle.Config{Rate: "10/hour"})
	require.NoError(t, err)

	_, drain, err := limiter.Hold(ctx, "dropped", 9)
	require.NoError(t, err)
	require.NotNil(t, drain)

	// The handle goes out of scope undrained; the budget stays whole.
	status, err := limiter.Status(ctx, "dropped")
	require.NoError(t, err)
	assert.InDelta(t, 10, status.Remaining, 0.01)
}
