package strategy

import (
	"main/internal/model"
	"main/internal/model/enum"

	"github.com/yanun0323/errors"
)

// Band is a fixed (low, high) price band for one symbol.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ThresholdConfig holds the per-symbol bands and the order size used for
// every emitted signal.
type ThresholdConfig struct {
	Bands     map[string]Band `json:"bands"`
	OrderSize float64         `json:"order_size"`
}

// Threshold emits Buy when price drops below a symbol's low band edge and
// Sell when it rises above the high edge. Symbols without a configured band
// never emit. Stateless beyond configuration.
type Threshold struct {
	bands     map[string]Band
	orderSize float64
}

func NewThreshold(cfg ThresholdConfig) (*Threshold, error) {
	if cfg.OrderSize <= 0 {
		return nil, errors.Errorf("order size must be positive, got %v", cfg.OrderSize)
	}
	for symbol, band := range cfg.Bands {
		if band.Low >= band.High {
			return nil, errors.Errorf("band for %s: low %v must be below high %v", symbol, band.Low, band.High)
		}
	}
	return &Threshold{bands: cfg.Bands, orderSize: cfg.OrderSize}, nil
}

func (s *Threshold) Name() string { return "threshold" }

func (s *Threshold) OnTick(tick model.EnrichedTick) []model.TradingSignal {
	band, ok := s.bands[tick.Tick.Symbol]
	if !ok {
		return nil
	}

	var side enum.Side
	switch {
	case tick.Tick.Price < band.Low:
		side = enum.SideBuy
	case tick.Tick.Price > band.High:
		side = enum.SideSell
	default:
		return nil
	}

	return []model.TradingSignal{{
		Symbol:         tick.Tick.Symbol,
		Side:           side,
		Price:          tick.Tick.Price,
		Quantity:       s.orderSize,
		SignalType:     enum.SignalThreshold,
		TimestampNanos: model.NanosNow(),
	}}
}
