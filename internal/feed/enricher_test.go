package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bus"
	"main/internal/codec"
	"main/internal/model"
	"main/internal/obs"
)

func encodedTick(t *testing.T, originNanos uint64) []byte {
	t.Helper()
	data, err := codec.EncodeTick(model.MarketTick{
		Symbol:         "BTC/USD",
		Price:          45000,
		Volume:         100,
		TimestampNanos: model.NanosFromUint64(originNanos),
	})
	require.NoError(t, err)
	return data
}

func drain(q *bus.Queue) []model.EnrichedTick {
	q.Close()
	var out []model.EnrichedTick
	q.Run(context.Background(), func(tick model.EnrichedTick) {
		out = append(out, tick)
	})
	return out
}

func TestHandleRawEnrichesAndForwards(t *testing.T) {
	q := bus.NewQueue(4)
	e := NewEnricher(q, obs.NewMetrics()).
		WithNow(func() model.Nanos { return model.NanosFromUint64(1_000_000_000 + 3_000) })

	e.HandleRaw(encodedTick(t, 1_000_000_000))

	got := drain(q)
	require.Len(t, got, 1)
	assert.Equal(t, "BTC/USD", got[0].Tick.Symbol)
	assert.Equal(t, model.NanosFromUint64(1_000_003_000), got[0].ReceiveTimeNanos)
	assert.InDelta(t, 3.0, got[0].LatencyMicros, 1e-9)
}

func TestHandleRawSkipsMalformedPayload(t *testing.T) {
	q := bus.NewQueue(4)
	e := NewEnricher(q, obs.NewMetrics())

	e.HandleRaw([]byte("garbage"))
	e.HandleRaw(encodedTick(t, 1))

	// The bad packet is dropped, the loop keeps going.
	assert.Len(t, drain(q), 1)
}

func TestHandleTickNegativeLatencyKept(t *testing.T) {
	q := bus.NewQueue(4)
	e := NewEnricher(q, obs.NewMetrics()).
		WithNow(func() model.Nanos { return model.NanosFromUint64(1_000_000_000) })

	e.HandleTick(model.MarketTick{
		Symbol:         "BTC/USD",
		Price:          45000,
		Volume:         1,
		TimestampNanos: model.NanosFromUint64(1_000_005_000),
	})

	got := drain(q)
	require.Len(t, got, 1)
	assert.InDelta(t, -5.0, got[0].LatencyMicros, 1e-9)
}

func TestHandleTickDropsOnFullQueue(t *testing.T) {
	q := bus.NewQueue(1)
	e := NewEnricher(q, obs.NewMetrics())

	e.HandleRaw(encodedTick(t, 1))
	e.HandleRaw(encodedTick(t, 2))

	got := drain(q)
	require.Len(t, got, 1)
	assert.Equal(t, model.NanosFromUint64(1), got[0].Tick.TimestampNanos)
}

func TestTapSeesEveryParsedTick(t *testing.T) {
	q := bus.NewQueue(4)
	var tapped []model.MarketTick
	e := NewEnricher(q, nil).
		WithTap(func(tick model.MarketTick) { tapped = append(tapped, tick) })

	e.HandleRaw([]byte("garbage"))
	e.HandleRaw(encodedTick(t, 7))

	require.Len(t, tapped, 1)
	assert.Equal(t, model.NanosFromUint64(7), tapped[0].TimestampNanos)
}

func TestTickFromTrade(t *testing.T) {
	tick, err := tickFromTrade(binanceTrade{
		EventType: "trade",
		Symbol:    "BTCUSDT",
		Price:     "45000.5",
		Quantity:  "0.25",
		TradeTime: 1_700_000_000_123,
	})
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", tick.Symbol)
	assert.Equal(t, 45000.5, tick.Price)
	assert.Equal(t, uint64(1), tick.Volume)
	assert.Equal(t, model.NanosFromUint64(1_700_000_000_123_000_000), tick.TimestampNanos)

	_, err = tickFromTrade(binanceTrade{Price: "x", Quantity: "1"})
	assert.Error(t, err)
}
