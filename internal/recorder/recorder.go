package recorder

import (
	"bufio"
	"os"

	"main/internal/codec"
	"main/internal/model"

	"github.com/yanun0323/errors"
)

// Recorder appends ticks to a newline-delimited log, one serialized tick per
// line. Writes are buffered: callers must Flush (or Close) before relying on
// the data being on disk.
type Recorder struct {
	f     *os.File
	w     *bufio.Writer
	count uint64
}

// NewRecorder opens the log for appending, creating it when missing.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open record log %s", path)
	}
	return &Recorder{f: f, w: bufio.NewWriter(f)}, nil
}

// Record serializes one tick and appends it as a line.
func (r *Recorder) Record(tick model.MarketTick) error {
	data, err := codec.EncodeTick(tick)
	if err != nil {
		return errors.Wrap(err, "encode tick")
	}
	if _, err := r.w.Write(data); err != nil {
		return errors.Wrap(err, "write tick")
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write tick delimiter")
	}
	r.count++
	return nil
}

// Count returns the number of ticks recorded so far.
func (r *Recorder) Count() uint64 {
	return r.count
}

// Flush pushes buffered lines to the file.
func (r *Recorder) Flush() error {
	return errors.Wrap(r.w.Flush(), "flush record log")
}

// Close flushes and releases the file handle.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		_ = r.f.Close()
		return err
	}
	return errors.Wrap(r.f.Close(), "close record log")
}
