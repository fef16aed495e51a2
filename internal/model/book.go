package model

// BookLevel is one price rung of an order book side.
type BookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBook is a per-symbol L2 view. Bids are strictly descending in price,
// asks strictly ascending; index 0 is the top of book on each side.
// Owned exclusively by the book manager and mutated in place.
type OrderBook struct {
	Symbol         string      `json:"symbol"`
	Bids           []BookLevel `json:"bids"`
	Asks           []BookLevel `json:"asks"`
	TimestampNanos Nanos       `json:"timestamp_nanos"`
}

// BestBid returns the top bid level when the bid side is non-empty.
func (b *OrderBook) BestBid() (BookLevel, bool) {
	if b == nil || len(b.Bids) == 0 {
		return BookLevel{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the top ask level when the ask side is non-empty.
func (b *OrderBook) BestAsk() (BookLevel, bool) {
	if b == nil || len(b.Asks) == 0 {
		return BookLevel{}, false
	}
	return b.Asks[0], true
}

// Spread returns best ask minus best bid; false when either side is empty.
func (b *OrderBook) Spread() (float64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// MidPrice returns the average of best bid and best ask.
func (b *OrderBook) MidPrice() (float64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (ask.Price + bid.Price) / 2, true
}
