package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
)

func TestTickRoundTripPreservesWideTimestamp(t *testing.T) {
	orig := model.MarketTick{
		Symbol: "BTC/USD",
		Price:  45000.25,
		Volume: 100,
		// Above 2^64: a float64-routed encoding would destroy this.
		TimestampNanos: model.Nanos{Hi: 1, Lo: 12345},
	}

	data, err := EncodeTick(orig)
	require.NoError(t, err)
	assert.Contains(t, string(data), orig.TimestampNanos.String())

	decoded, err := DecodeTick(data)
	require.NoError(t, err)
	assert.Equal(t, orig, decoded)
}

func TestDecodeTickRejectsMalformed(t *testing.T) {
	_, err := DecodeTick([]byte("{not json"))
	assert.Error(t, err)

	_, err = DecodeTick([]byte(`{"price":1.0,"volume":2,"timestamp_nanos":3}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTick)
}

func TestFrameRoundTripAllVariants(t *testing.T) {
	ts := model.NanosFromUint64(1700000000000000000)
	tick := model.MarketTick{Symbol: "ETH/USD", Price: 2500, Volume: 7, TimestampNanos: ts}

	envelopes := []Envelope{
		{Type: MessageTick, Tick: &tick},
		{Type: MessageEnrichedTick, Enriched: &model.EnrichedTick{
			Tick:             tick,
			ReceiveTimeNanos: ts.AddNanos(1500),
			LatencyMicros:    1.5,
		}},
		{Type: MessageSignal, Signal: &model.TradingSignal{
			Symbol: "ETH/USD", Side: enum.SideBuy, Price: 2499, Quantity: 1,
			SignalType: enum.SignalThreshold, TimestampNanos: ts,
		}},
		{Type: MessageOrder, Order: &model.Order{
			OrderID: 9, Symbol: "ETH/USD", Side: enum.SideSell, Price: 2501, Quantity: 2, TimestampNanos: ts,
		}},
		{Type: MessageOrderBookUpdate, Book: &model.OrderBook{
			Symbol:         "ETH/USD",
			Bids:           []model.BookLevel{{Price: 2499, Quantity: 3}},
			Asks:           []model.BookLevel{{Price: 2501, Quantity: 4}},
			TimestampNanos: ts,
		}},
		{Type: MessageHeartbeat, Heartbeat: &Heartbeat{Sender: "feed", TimestampNanos: ts}},
		{Type: MessageShutdown},
	}

	var buf bytes.Buffer
	for _, env := range envelopes {
		require.NoError(t, WriteFrame(&buf, env))
	}

	for _, want := range envelopes {
		got, err := ReadFrame(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ReadFrame(&buf)
	assert.Equal(t, io.EOF, err)
}

func TestFramePrefixIsBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, Envelope{Type: MessageShutdown}))

	raw := buf.Bytes()
	require.GreaterOrEqual(t, len(raw), 4)
	assert.Equal(t, uint32(len(raw)-4), binary.BigEndian.Uint32(raw[:4]))
}

func TestWriteFrameRejectsMismatchedPayload(t *testing.T) {
	err := WriteFrame(io.Discard, Envelope{Type: MessageTick})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnvelopeMissing)
}

func TestReadFrameRejectsOversizedPrefix(t *testing.T) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], math.MaxUint32)
	_, err := ReadFrame(bytes.NewReader(prefix[:]))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}
