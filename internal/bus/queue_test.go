package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
)

func tickWithPrice(price float64) model.EnrichedTick {
	return model.EnrichedTick{
		Tick: model.MarketTick{Symbol: "BTC/USD", Price: price, Volume: 1},
	}
}

func TestQueueDropsNewestWhenFull(t *testing.T) {
	q := NewQueue(2)

	require.NoError(t, q.TryPublish(tickWithPrice(1)))
	require.NoError(t, q.TryPublish(tickWithPrice(2)))

	err := q.TryPublish(tickWithPrice(3))
	assert.ErrorIs(t, err, ErrQueueFull)

	// Older items are untouched by the rejected publish.
	assert.Equal(t, 2, q.Len())
}

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue(8)
	for i := 1; i <= 5; i++ {
		require.NoError(t, q.TryPublish(tickWithPrice(float64(i))))
	}
	q.Close()

	var got []float64
	q.Run(context.Background(), func(tick model.EnrichedTick) {
		got = append(got, tick.Tick.Price)
	})
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}

func TestQueueCloseDrainsBufferedItems(t *testing.T) {
	q := NewQueue(4)
	require.NoError(t, q.TryPublish(tickWithPrice(1)))
	require.NoError(t, q.TryPublish(tickWithPrice(2)))
	q.Close()

	assert.ErrorIs(t, q.TryPublish(tickWithPrice(3)), ErrQueueClosed)

	count := 0
	q.Run(context.Background(), func(model.EnrichedTick) { count++ })
	assert.Equal(t, 2, count)
}

func TestQueueCloseIsIdempotent(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close()
	assert.ErrorIs(t, q.TryPublish(tickWithPrice(1)), ErrQueueClosed)
}

func TestQueueRunStopsOnContextCancel(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.TryPublish(tickWithPrice(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(model.EnrichedTick) {})
		close(done)
	}()
	<-done
}
