package gateway

import (
	"sync/atomic"

	"main/internal/model"
	"main/internal/obs"

	"github.com/yanun0323/logs"
)

// Gateway turns trading signals into orders. This is a paper shim: orders
// are assigned monotonic IDs and logged, never routed to an exchange.
type Gateway struct {
	session string
	nextID  atomic.Uint64
	metrics *obs.Metrics
	now     func() model.Nanos
}

// New creates a gateway for one trading session.
func New(session string, metrics *obs.Metrics) *Gateway {
	return &Gateway{
		session: session,
		metrics: metrics,
		now:     model.NanosNow,
	}
}

// WithNow replaces the order timestamp source. Test seam.
func (g *Gateway) WithNow(now func() model.Nanos) *Gateway {
	g.now = now
	return g
}

// Place converts one signal into an order with the next sequential ID.
func (g *Gateway) Place(signal model.TradingSignal) model.Order {
	order := model.Order{
		OrderID:        g.nextID.Add(1),
		Symbol:         signal.Symbol,
		Side:           signal.Side,
		Price:          signal.Price,
		Quantity:       signal.Quantity,
		TimestampNanos: g.now(),
	}

	g.metrics.IncOrderSent()
	logs.Infof("session %s placed order %d: %s %s %.8f @ %.8f (%s)",
		g.session, order.OrderID, order.Side, order.Symbol, order.Quantity, order.Price, signal.SignalType)
	return order
}

// Placed returns the number of orders placed so far.
func (g *Gateway) Placed() uint64 {
	return g.nextID.Load()
}
