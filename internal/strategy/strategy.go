package strategy

import (
	"main/internal/model"

	"github.com/yanun0323/errors"
)

// Strategy consumes enriched ticks in arrival order and emits zero or more
// trading signals per tick. Implementations own private mutable state and are
// single-writer: one consumer goroutine drives all OnTick calls.
//
// New strategies are added by implementing this interface and extending
// Build, not by wrapping existing variants.
type Strategy interface {
	Name() string
	OnTick(tick model.EnrichedTick) []model.TradingSignal
}

// Config selects and parameterizes the strategy set. Nil sections are
// disabled.
type Config struct {
	Threshold     *ThresholdConfig     `json:"threshold,omitempty"`
	MarketMaking  *MarketMakingConfig  `json:"market_making,omitempty"`
	MeanReversion *MeanReversionConfig `json:"mean_reversion,omitempty"`
}

// Build constructs the enabled strategies in a fixed order.
func Build(cfg Config) ([]Strategy, error) {
	var set []Strategy
	if cfg.Threshold != nil {
		s, err := NewThreshold(*cfg.Threshold)
		if err != nil {
			return nil, errors.Wrap(err, "build threshold strategy")
		}
		set = append(set, s)
	}
	if cfg.MarketMaking != nil {
		s, err := NewMarketMaking(*cfg.MarketMaking)
		if err != nil {
			return nil, errors.Wrap(err, "build market making strategy")
		}
		set = append(set, s)
	}
	if cfg.MeanReversion != nil {
		s, err := NewMeanReversion(*cfg.MeanReversion)
		if err != nil {
			return nil, errors.Wrap(err, "build mean reversion strategy")
		}
		set = append(set, s)
	}
	return set, nil
}
