package recorder

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sort"

	"main/internal/codec"
	"main/internal/model"

	"github.com/yanun0323/errors"
)

// ErrMalformedLine marks a replay log line that failed to parse. Unlike live
// ingestion, replay treats this as fatal to the session: a recorded log is
// assumed well-formed, so corruption means the whole scan is unreliable.
var ErrMalformedLine = errors.New("malformed replay log line")

// Replayer sequentially reads one recorded tick per call.
type Replayer struct {
	f    *os.File
	r    *bufio.Reader
	line int
}

// OpenReplayer opens a recorded log for sequential reading.
func OpenReplayer(path string) (*Replayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open replay log %s", path)
	}
	return &Replayer{f: f, r: bufio.NewReader(f)}, nil
}

// Next returns the next recorded tick. io.EOF signals a clean end of stream;
// any other error ends the session.
func (r *Replayer) Next() (model.MarketTick, error) {
	for {
		data, err := r.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return model.MarketTick{}, errors.Wrap(err, "read replay log")
		}
		atEOF := err == io.EOF
		r.line++

		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			if atEOF {
				return model.MarketTick{}, io.EOF
			}
			continue
		}

		tick, err := codec.DecodeTick(data)
		if err != nil {
			return model.MarketTick{}, errors.Wrapf(ErrMalformedLine, "line %d: %v", r.line, err)
		}
		return tick, nil
	}
}

// Close releases the file handle.
func (r *Replayer) Close() error {
	return errors.Wrap(r.f.Close(), "close replay log")
}

// Stats summarizes one full pass over a replay log.
type Stats struct {
	TotalTicks     uint64      `json:"total_ticks"`
	StartTimestamp model.Nanos `json:"start_timestamp"`
	EndTimestamp   model.Nanos `json:"end_timestamp"`
	DurationMS     int64       `json:"duration_ms"`
	Symbols        []string    `json:"symbols"`
}

// CollectStats scans the whole log once, accumulating the tick count, the
// first and last timestamps, and the distinct symbol set in sorted order.
func CollectStats(path string) (Stats, error) {
	r, err := OpenReplayer(path)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	var stats Stats
	symbols := make(map[string]struct{})
	for {
		tick, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stats{}, err
		}

		if stats.TotalTicks == 0 {
			stats.StartTimestamp = tick.TimestampNanos
		}
		stats.EndTimestamp = tick.TimestampNanos
		stats.TotalTicks++
		symbols[tick.Symbol] = struct{}{}
	}

	if stats.TotalTicks > 0 {
		stats.DurationMS = stats.EndTimestamp.DeltaNanos(stats.StartTimestamp) / 1_000_000
	}
	stats.Symbols = make([]string, 0, len(symbols))
	for s := range symbols {
		stats.Symbols = append(stats.Symbols, s)
	}
	sort.Strings(stats.Symbols)
	return stats, nil
}
