package rod_test

import (
	"context"
	"testing"
	"time"

	"github.com/imagineworking4288/pagebound/mock"
	"github.com/imagineworking4288/pagebound/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// growingNavigator simulates a page that grows by growth pixels per
// scroll until it reaches maxHeight.
func growingNavigator(start, growth, maxHeight float64) *mock.Navigator {
	height := start
	return &mock.Navigator{
		HeightFn: func(context.Context) (float64, error) {
			return height, nil
		},
		ScrollBottomFn: func(context.Context) (float64, error) {
			if height+growth <= maxHeight {
				height += growth
			}
			return height, nil
		},
	}
}

func TestScrollToBottom_StopsAfterStableRounds(t *testing.T) {
	t.Parallel()

	nav := growingNavigator(1000, 500, 3000)

	res, err := rod.ScrollToBottom(context.Background(), nav, rod.ScrollOptions{
		MaxScrolls:   50,
		Pause:        time.Millisecond,
		StableRounds: 3,
	})

	require.NoError(t, err)
	assert.True(t, res.ReachedBottom)
	assert.Equal(t, 3000.0, res.FinalHeight)
	// 4 growth rounds (1500, 2000, 2500, 3000) + 3 stable rounds
	assert.Equal(t, 7, res.Scrolls)
}

func TestScrollToBottom_GrowthResetsStableCount(t *testing.T) {
	t.Parallel()

	// Flat for two rounds, then grows once, then flat again. A
	// traversal requiring 3 stable rounds must not stop during the
	// first flat stretch.
	heights := []float64{1000, 1000, 2000, 2000, 2000, 2000}
	calls := 0
	nav := &mock.Navigator{
		HeightFn: func(context.Context) (float64, error) {
			return 1000, nil
		},
		ScrollBottomFn: func(context.Context) (float64, error) {
			h := heights[min(calls, len(heights)-1)]
			calls++
			return h, nil
		},
	}

	res, err := rod.ScrollToBottom(context.Background(), nav, rod.ScrollOptions{
		MaxScrolls:   50,
		Pause:        time.Millisecond,
		StableRounds: 3,
	})

	require.NoError(t, err)
	assert.True(t, res.ReachedBottom)
	assert.Equal(t, 2000.0, res.FinalHeight)
	assert.Equal(t, 6, res.Scrolls)
}

func TestScrollToBottom_RespectsMaxScrolls(t *testing.T) {
	t.Parallel()

	// Grows forever.
	height := 1000.0
	nav := &mock.Navigator{
		HeightFn: func(context.Context) (float64, error) {
			return height, nil
		},
		ScrollBottomFn: func(context.Context) (float64, error) {
			height += 500
			return height, nil
		},
	}

	res, err := rod.ScrollToBottom(context.Background(), nav, rod.ScrollOptions{
		MaxScrolls:   10,
		Pause:        time.Millisecond,
		StableRounds: 3,
	})

	require.NoError(t, err)
	assert.False(t, res.ReachedBottom)
	assert.Equal(t, 10, res.Scrolls)
}

func TestScrollToBottom_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav := growingNavigator(1000, 500, 3000)
	_, err := rod.ScrollToBottom(ctx, nav, rod.ScrollOptions{Pause: time.Millisecond})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
