package strategy

import (
	"main/internal/model"
	"main/internal/model/enum"

	"github.com/yanun0323/errors"
)

// MarketMakingConfig sets the quoted spread and the size of each quote.
type MarketMakingConfig struct {
	SpreadBps float64 `json:"spread_bps"`
	OrderSize float64 `json:"order_size"`
}

// MarketMaking quotes both sides of the last traded price on every tick,
// emitting a paired Buy at price − half_spread and Sell at price +
// half_spread atomically. The pair shares one generation timestamp so
// downstream consumers see the quote as a unit.
type MarketMaking struct {
	spreadBps  float64
	orderSize  float64
	lastPrices map[string]float64
}

func NewMarketMaking(cfg MarketMakingConfig) (*MarketMaking, error) {
	if cfg.SpreadBps <= 0 {
		return nil, errors.Errorf("spread bps must be positive, got %v", cfg.SpreadBps)
	}
	if cfg.OrderSize <= 0 {
		return nil, errors.Errorf("order size must be positive, got %v", cfg.OrderSize)
	}
	return &MarketMaking{
		spreadBps:  cfg.SpreadBps,
		orderSize:  cfg.OrderSize,
		lastPrices: make(map[string]float64),
	}, nil
}

func (s *MarketMaking) Name() string { return "market_making" }

func (s *MarketMaking) OnTick(tick model.EnrichedTick) []model.TradingSignal {
	s.lastPrices[tick.Tick.Symbol] = tick.Tick.Price

	half := tick.Tick.Price * (s.spreadBps / 10000.0) / 2
	now := model.NanosNow()
	return []model.TradingSignal{
		{
			Symbol:         tick.Tick.Symbol,
			Side:           enum.SideBuy,
			Price:          tick.Tick.Price - half,
			Quantity:       s.orderSize,
			SignalType:     enum.SignalMarketMaking,
			TimestampNanos: now,
		},
		{
			Symbol:         tick.Tick.Symbol,
			Side:           enum.SideSell,
			Price:          tick.Tick.Price + half,
			Quantity:       s.orderSize,
			SignalType:     enum.SignalMarketMaking,
			TimestampNanos: now,
		},
	}
}

// LastPrice returns the most recent price observed for a symbol.
func (s *MarketMaking) LastPrice(symbol string) (float64, bool) {
	price, ok := s.lastPrices[symbol]
	return price, ok
}
