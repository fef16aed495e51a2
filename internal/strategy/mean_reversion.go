package strategy

import (
	"math"

	"main/internal/model"
	"main/internal/model/enum"

	"github.com/yanun0323/errors"
)

// MeanReversionConfig sets the rolling window length, the z-score trigger
// threshold in standard deviations, and the emitted order size.
type MeanReversionConfig struct {
	WindowSize      int     `json:"window_size"`
	StddevThreshold float64 `json:"stddev_threshold"`
	OrderSize       float64 `json:"order_size"`
}

// MeanReversion keeps a fixed-size FIFO price window per symbol and trades
// against statistical outliers: Sell when the z-score exceeds the threshold,
// Buy when it falls below the negated threshold. No signal until the window
// is full, and a zero-variance window never signals.
type MeanReversion struct {
	windowSize int
	threshold  float64
	orderSize  float64
	windows    map[string][]float64
}

func NewMeanReversion(cfg MeanReversionConfig) (*MeanReversion, error) {
	if cfg.WindowSize < 2 {
		return nil, errors.Errorf("window size must be at least 2, got %d", cfg.WindowSize)
	}
	if cfg.StddevThreshold <= 0 {
		return nil, errors.Errorf("stddev threshold must be positive, got %v", cfg.StddevThreshold)
	}
	if cfg.OrderSize <= 0 {
		return nil, errors.Errorf("order size must be positive, got %v", cfg.OrderSize)
	}
	return &MeanReversion{
		windowSize: cfg.WindowSize,
		threshold:  cfg.StddevThreshold,
		orderSize:  cfg.OrderSize,
		windows:    make(map[string][]float64),
	}, nil
}

func (s *MeanReversion) Name() string { return "mean_reversion" }

func (s *MeanReversion) OnTick(tick model.EnrichedTick) []model.TradingSignal {
	symbol := tick.Tick.Symbol
	window := append(s.windows[symbol], tick.Tick.Price)
	if len(window) > s.windowSize {
		window = window[1:]
	}
	s.windows[symbol] = window

	if len(window) < s.windowSize {
		return nil
	}

	mean, stddev := meanStddev(window)
	if stddev == 0 {
		return nil
	}

	z := (tick.Tick.Price - mean) / stddev
	var side enum.Side
	switch {
	case z > s.threshold:
		side = enum.SideSell
	case z < -s.threshold:
		side = enum.SideBuy
	default:
		return nil
	}

	return []model.TradingSignal{{
		Symbol:         symbol,
		Side:           side,
		Price:          tick.Tick.Price,
		Quantity:       s.orderSize,
		SignalType:     enum.SignalMeanReversion,
		TimestampNanos: model.NanosNow(),
	}}
}

// meanStddev returns the sample mean and population standard deviation.
func meanStddev(window []float64) (mean, stddev float64) {
	for _, p := range window {
		mean += p
	}
	mean /= float64(len(window))

	var variance float64
	for _, p := range window {
		d := p - mean
		variance += d * d
	}
	variance /= float64(len(window))
	return mean, math.Sqrt(variance)
}
