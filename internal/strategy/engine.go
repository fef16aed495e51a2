package strategy

import (
	"context"

	"main/internal/book"
	"main/internal/bus"
	"main/internal/model"
	"main/internal/obs"

	"github.com/yanun0323/logs"
)

// SignalSink receives every generated signal, in generation order.
type SignalSink func(model.TradingSignal)

// Engine is the single consumer goroutine's processing core: it drains the
// tick queue, applies each tick to the book manager, then runs every strategy
// against the enriched tick. The engine is the sole writer of the book
// manager and of all strategy state.
type Engine struct {
	books      *book.Manager
	strategies []Strategy
	metrics    *obs.Metrics
	sink       SignalSink
}

// NewEngine wires the processing core. A nil sink discards signals.
func NewEngine(books *book.Manager, strategies []Strategy, metrics *obs.Metrics, sink SignalSink) *Engine {
	if sink == nil {
		sink = func(model.TradingSignal) {}
	}
	return &Engine{
		books:      books,
		strategies: strategies,
		metrics:    metrics,
		sink:       sink,
	}
}

// Books exposes the engine-owned book manager for read-only inspection.
func (e *Engine) Books() *book.Manager {
	return e.books
}

// Run consumes the queue until it is closed and drained or the context is
// cancelled.
func (e *Engine) Run(ctx context.Context, queue *bus.Queue) {
	queue.Run(ctx, e.Process)
}

// Process applies one enriched tick: book update first, strategies second, so
// strategies observe book state that already includes the current tick.
func (e *Engine) Process(tick model.EnrichedTick) {
	e.books.Update(tick.Tick)
	if e.books.IsCrossed(tick.Tick.Symbol) {
		e.metrics.IncCrossedBook()
		logs.Warnf("crossed book detected for %s", tick.Tick.Symbol)
	}

	for _, s := range e.strategies {
		for _, signal := range s.OnTick(tick) {
			e.metrics.IncSignal(s.Name())
			e.sink(signal)
		}
	}
}
