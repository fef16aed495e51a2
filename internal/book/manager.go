package book

import (
	"main/internal/model"
)

const (
	defaultSpreadBps = 10.0
	defaultLevels    = 5

	// levelStep is the per-level price offset as a fraction of the tick
	// price (one basis point per level).
	levelStep = 0.0001
)

// Config controls the synthetic depth derivation.
type Config struct {
	// SpreadBps is the synthetic bid/ask spread in basis points.
	SpreadBps float64
	// Levels is the number of price levels produced per side.
	Levels int
}

func (c Config) withDefaults() Config {
	if c.SpreadBps <= 0 {
		c.SpreadBps = defaultSpreadBps
	}
	if c.Levels <= 0 {
		c.Levels = defaultLevels
	}
	return c
}

// Manager owns every per-symbol book. It is single-writer: Update must only
// be called from the one consumer goroutine that owns the manager. Books are
// created lazily on first tick and live for the process lifetime.
type Manager struct {
	cfg   Config
	books map[string]*model.OrderBook
}

// NewManager creates an empty book manager.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:   cfg.withDefaults(),
		books: make(map[string]*model.OrderBook),
	}
}

// Update replaces the book levels for the tick's symbol with a synthetic
// derivation from the single best-price observation. There is no cross-tick
// depth memory; a real L2 feed would apply true depth updates here instead,
// keeping the same ordering invariant.
func (m *Manager) Update(tick model.MarketTick) *model.OrderBook {
	b := m.books[tick.Symbol]
	if b == nil {
		b = &model.OrderBook{
			Symbol: tick.Symbol,
			Bids:   make([]model.BookLevel, 0, m.cfg.Levels),
			Asks:   make([]model.BookLevel, 0, m.cfg.Levels),
		}
		m.books[tick.Symbol] = b
	}

	b.TimestampNanos = tick.TimestampNanos
	b.Bids = b.Bids[:0]
	b.Asks = b.Asks[:0]

	spread := tick.Price * (m.cfg.SpreadBps / 10000.0)
	for i := 0; i < m.cfg.Levels; i++ {
		offset := spread/2 + float64(i)*tick.Price*levelStep
		qty := float64(tick.Volume) / float64(i+1)
		b.Bids = append(b.Bids, model.BookLevel{Price: tick.Price - offset, Quantity: qty})
		b.Asks = append(b.Asks, model.BookLevel{Price: tick.Price + offset, Quantity: qty})
	}
	return b
}

// Book returns the live book for a symbol.
func (m *Manager) Book(symbol string) (*model.OrderBook, bool) {
	b, ok := m.books[symbol]
	return b, ok
}

// BestBid returns the top bid; false when the symbol is unknown or empty.
func (m *Manager) BestBid(symbol string) (model.BookLevel, bool) {
	b, ok := m.books[symbol]
	if !ok {
		return model.BookLevel{}, false
	}
	return b.BestBid()
}

// BestAsk returns the top ask; false when the symbol is unknown or empty.
func (m *Manager) BestAsk(symbol string) (model.BookLevel, bool) {
	b, ok := m.books[symbol]
	if !ok {
		return model.BookLevel{}, false
	}
	return b.BestAsk()
}

// Spread returns best ask minus best bid.
func (m *Manager) Spread(symbol string) (float64, bool) {
	b, ok := m.books[symbol]
	if !ok {
		return 0, false
	}
	return b.Spread()
}

// MidPrice returns the midpoint of the top of book.
func (m *Manager) MidPrice(symbol string) (float64, bool) {
	b, ok := m.books[symbol]
	if !ok {
		return 0, false
	}
	return b.MidPrice()
}

// VWAP computes the volume-weighted average price over the top depth bid
// levels; depth 0 means all levels. A zero quantity sum yields the defined
// result 0, not an error.
func (m *Manager) VWAP(symbol string, depth int) (float64, bool) {
	b, ok := m.books[symbol]
	if !ok {
		return 0, false
	}

	levels := b.Bids
	if depth > 0 && depth < len(levels) {
		levels = levels[:depth]
	}

	var totalValue, totalQty float64
	for _, level := range levels {
		totalValue += level.Price * level.Quantity
		totalQty += level.Quantity
	}
	if totalQty == 0 {
		return 0, true
	}
	return totalValue / totalQty, true
}

// IsCrossed reports whether best bid >= best ask, which signals a data fault
// or an arbitrage opportunity and should be surfaced as an anomaly.
func (m *Manager) IsCrossed(symbol string) bool {
	bid, okBid := m.BestBid(symbol)
	ask, okAsk := m.BestAsk(symbol)
	if !okBid || !okAsk {
		return false
	}
	return bid.Price >= ask.Price
}

// Depth returns up to n levels per side, clamped to availability. The
// returned slices are copies and safe to retain.
func (m *Manager) Depth(symbol string, n int) (bids, asks []model.BookLevel, ok bool) {
	b, found := m.books[symbol]
	if !found {
		return nil, nil, false
	}
	bids = append([]model.BookLevel(nil), b.Bids[:clamp(n, len(b.Bids))]...)
	asks = append([]model.BookLevel(nil), b.Asks[:clamp(n, len(b.Asks))]...)
	return bids, asks, true
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
