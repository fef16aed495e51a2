package feed

import (
	"errors"

	"main/internal/bus"
	"main/internal/codec"
	"main/internal/model"
	"main/internal/obs"

	"github.com/yanun0323/logs"
)

// Enricher is the ingestion boundary: it parses raw tick payloads, stamps
// receive time, computes transit latency and forwards downstream without ever
// blocking. A malformed payload or a full queue drops the tick and the loop
// continues.
type Enricher struct {
	queue   *bus.Queue
	metrics *obs.Metrics
	now     func() model.Nanos
	tap     func(model.MarketTick)
}

// NewEnricher wires the ingestion path against the given queue.
func NewEnricher(queue *bus.Queue, metrics *obs.Metrics) *Enricher {
	return &Enricher{
		queue:   queue,
		metrics: metrics,
		now:     model.NanosNow,
	}
}

// WithNow replaces the receive-time source. Test seam.
func (e *Enricher) WithNow(now func() model.Nanos) *Enricher {
	e.now = now
	return e
}

// WithTap registers a callback invoked with every successfully parsed tick
// before enrichment, used to feed a recorder from the live stream.
func (e *Enricher) WithTap(tap func(model.MarketTick)) *Enricher {
	e.tap = tap
	return e
}

// HandleRaw ingests one serialized tick payload.
func (e *Enricher) HandleRaw(data []byte) {
	tick, err := codec.DecodeTick(data)
	if err != nil {
		e.metrics.IncParseError()
		logs.Warnf("drop malformed tick payload: %v", err)
		return
	}
	e.HandleTick(tick)
}

// HandleTick ingests one already-parsed tick, used by the replay path.
func (e *Enricher) HandleTick(tick model.MarketTick) {
	if e.tap != nil {
		e.tap(tick)
	}

	recv := e.now()
	delta := recv.DeltaNanos(tick.TimestampNanos)
	if delta < 0 {
		e.metrics.IncClockSkew()
	}

	enriched := model.EnrichedTick{
		Tick:             tick,
		ReceiveTimeNanos: recv,
		LatencyMicros:    float64(delta) / 1000,
	}

	e.metrics.IncTickReceived()
	e.metrics.ObserveLatencyMicros(enriched.LatencyMicros)

	if err := e.queue.TryPublish(enriched); err != nil {
		if errors.Is(err, bus.ErrQueueFull) {
			e.metrics.IncTickDropped()
		}
	}
}
