package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LatencyBuckets are the fixed tick-latency histogram boundaries in
// microseconds.
var LatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Metrics is the pipeline's observability context. It is constructed once at
// startup with its own registry and passed by pointer into each component;
// there is no process-wide lazily-initialized state.
type Metrics struct {
	registry *prometheus.Registry

	ticksReceived prometheus.Counter
	ticksDropped  prometheus.Counter
	parseErrors   prometheus.Counter
	clockSkew     prometheus.Counter
	crossedBooks  prometheus.Counter
	ordersSent    prometheus.Counter

	signalsGenerated *prometheus.CounterVec

	latency prometheus.Histogram
}

// NewMetrics builds and registers the pipeline metric set.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_ticks_received_total",
			Help: "Total number of market ticks received",
		}),
		ticksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_ticks_dropped_total",
			Help: "Ticks rejected by the full transport queue",
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_parse_errors_total",
			Help: "Inbound tick payloads that failed to parse",
		}),
		clockSkew: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_clock_skew_total",
			Help: "Ticks whose origin timestamp was after receive time",
		}),
		crossedBooks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "book_crossed_total",
			Help: "Updates that left a book with best bid >= best ask",
		}),
		ordersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_orders_placed_total",
			Help: "Total number of orders placed",
		}),
		signalsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "strategy_signals_generated_total",
			Help: "Total number of trading signals generated",
		}, []string{"strategy"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_latency_micros",
			Help:    "Tick transit latency in microseconds",
			Buckets: LatencyBuckets,
		}),
	}

	m.registry.MustRegister(
		m.ticksReceived,
		m.ticksDropped,
		m.parseErrors,
		m.clockSkew,
		m.crossedBooks,
		m.ordersSent,
		m.signalsGenerated,
		m.latency,
	)
	return m
}

// Registry exposes the underlying registry for exposition wiring.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncTickReceived counts one successfully parsed tick.
func (m *Metrics) IncTickReceived() {
	if m == nil {
		return
	}
	m.ticksReceived.Inc()
}

// IncTickDropped counts one tick rejected by the full queue.
func (m *Metrics) IncTickDropped() {
	if m == nil {
		return
	}
	m.ticksDropped.Inc()
}

// IncParseError counts one undecodable inbound payload.
func (m *Metrics) IncParseError() {
	if m == nil {
		return
	}
	m.parseErrors.Inc()
}

// IncClockSkew counts one negative-latency tick.
func (m *Metrics) IncClockSkew() {
	if m == nil {
		return
	}
	m.clockSkew.Inc()
}

// IncCrossedBook counts one crossed-book anomaly.
func (m *Metrics) IncCrossedBook() {
	if m == nil {
		return
	}
	m.crossedBooks.Inc()
}

// IncOrderSent counts one placed order.
func (m *Metrics) IncOrderSent() {
	if m == nil {
		return
	}
	m.ordersSent.Inc()
}

// IncSignal counts one generated signal for the named strategy.
func (m *Metrics) IncSignal(strategy string) {
	if m == nil {
		return
	}
	m.signalsGenerated.WithLabelValues(strategy).Inc()
}

// ObserveLatencyMicros records a non-negative transit latency sample.
func (m *Metrics) ObserveLatencyMicros(micros float64) {
	if m == nil || micros < 0 {
		return
	}
	m.latency.Observe(micros)
}
