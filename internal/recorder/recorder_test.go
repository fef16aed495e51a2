package recorder

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
)

func writeLog(t *testing.T, ticks []model.MarketTick) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticks.log")

	r, err := NewRecorder(path)
	require.NoError(t, err)
	for _, tick := range ticks {
		require.NoError(t, r.Record(tick))
	}
	require.Equal(t, uint64(len(ticks)), r.Count())
	require.NoError(t, r.Close())
	return path
}

func tenTicks() []model.MarketTick {
	ticks := make([]model.MarketTick, 10)
	for i := range ticks {
		ticks[i] = model.MarketTick{
			Symbol:         "BTC/USD",
			Price:          45000,
			Volume:         100,
			TimestampNanos: model.NanosFromUint64(1_700_000_000_000_000_000 + uint64(i)*1_000_000),
		}
	}
	return ticks
}

func TestRecordReplayRoundTrip(t *testing.T) {
	ticks := tenTicks()
	path := writeLog(t, ticks)

	r, err := OpenReplayer(path)
	require.NoError(t, err)
	defer r.Close()

	for i, want := range ticks {
		got, err := r.Next()
		require.NoError(t, err, "tick %d", i)
		assert.Equal(t, want, got)
	}

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCollectStats(t *testing.T) {
	ticks := tenTicks()
	ticks[3].Symbol = "ETH/USD"
	path := writeLog(t, ticks)

	stats, err := CollectStats(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), stats.TotalTicks)
	assert.Equal(t, ticks[0].TimestampNanos, stats.StartTimestamp)
	assert.Equal(t, ticks[9].TimestampNanos, stats.EndTimestamp)
	assert.Equal(t, int64(9), stats.DurationMS)
	assert.Equal(t, []string{"BTC/USD", "ETH/USD"}, stats.Symbols)
}

func TestCollectStatsEmptyLog(t *testing.T) {
	path := writeLog(t, nil)

	stats, err := CollectStats(path)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTicks)
	assert.Zero(t, stats.DurationMS)
	assert.Empty(t, stats.Symbols)
}

func TestReplayMalformedLineIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.log")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))

	r, err := OpenReplayer(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestReplayHandlesMissingTrailingNewline(t *testing.T) {
	path := writeLog(t, tenTicks()[:1])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0o644))

	r, err := OpenReplayer(path)
	require.NoError(t, err)
	defer r.Close()

	tick, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", tick.Symbol)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

type recordingClock struct {
	slept []time.Duration
}

func (c *recordingClock) Sleep(d time.Duration) { c.slept = append(c.slept, d) }

func TestPlaybackPacesByRecordedGaps(t *testing.T) {
	path := writeLog(t, tenTicks())

	clock := &recordingClock{}
	p := NewPlayback(PlaybackConfig{Path: path, Speed: 2}).WithClock(clock)

	count := 0
	require.NoError(t, p.Run(context.Background(), func(model.MarketTick) { count++ }))

	assert.Equal(t, 10, count)
	// Nine 1ms gaps replayed at double speed.
	require.Len(t, clock.slept, 9)
	for _, d := range clock.slept {
		assert.Equal(t, 500*time.Microsecond, d)
	}
}

func TestPlaybackStopsOnCancel(t *testing.T) {
	path := writeLog(t, tenTicks())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPlayback(PlaybackConfig{Path: path})
	err := p.Run(ctx, func(model.MarketTick) { t.Fatal("emit after cancel") })
	assert.ErrorIs(t, err, context.Canceled)
}
