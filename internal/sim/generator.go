package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"main/internal/model"
)

// DefaultBasePrices seed the random walk for the reference symbols.
var DefaultBasePrices = map[string]float64{
	"BTC/USD":  45000,
	"ETH/USD":  2500,
	"SOL/USD":  100,
	"AVAX/USD": 25,
}

// Generator produces a synthetic tick stream: each symbol's price follows an
// independent random walk of at most ±1% per step, with a uniform random
// volume. Symbols are emitted round-robin so every symbol advances at the
// same rate.
type Generator struct {
	symbols []string
	prices  map[string]float64
	rng     *rand.Rand
	index   int
}

// NewGenerator creates a generator walking from the given base prices.
func NewGenerator(basePrices map[string]float64, seed int64) (*Generator, error) {
	if len(basePrices) == 0 {
		return nil, fmt.Errorf("no symbols to generate")
	}

	symbols := make([]string, 0, len(basePrices))
	prices := make(map[string]float64, len(basePrices))
	for symbol, price := range basePrices {
		if price <= 0 {
			return nil, fmt.Errorf("base price for %s must be positive, got %v", symbol, price)
		}
		symbols = append(symbols, symbol)
		prices[symbol] = price
	}
	// Map iteration order is random; a fixed symbol order keeps the stream
	// reproducible for a given seed.
	sort.Strings(symbols)

	return &Generator{
		symbols: symbols,
		prices:  prices,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Next creates the next tick in sequence, stamped with the current time.
func (g *Generator) Next() model.MarketTick {
	symbol := g.symbols[g.index]
	g.index = (g.index + 1) % len(g.symbols)

	// Walk by up to one percent in either direction.
	price := g.prices[symbol] * (1 + (g.rng.Float64()*2-1)*0.01)
	g.prices[symbol] = price

	return model.MarketTick{
		Symbol:         symbol,
		Price:          price,
		Volume:         uint64(g.rng.Intn(99)) + 1,
		TimestampNanos: model.NanosNow(),
	}
}
