package enum

// SignalType identifies which strategy family produced a signal.
type SignalType uint8

const (
	SignalUnknown SignalType = iota
	SignalThreshold
	SignalMarketMaking
	SignalArbitrage
	SignalMeanReversion
)

// IsAvailable reports whether the signal type is a known value.
func (t SignalType) IsAvailable() bool {
	switch t {
	case SignalThreshold, SignalMarketMaking, SignalArbitrage, SignalMeanReversion:
		return true
	default:
		return false
	}
}

func (t SignalType) String() string {
	switch t {
	case SignalThreshold:
		return "threshold"
	case SignalMarketMaking:
		return "market_making"
	case SignalArbitrage:
		return "arbitrage"
	case SignalMeanReversion:
		return "mean_reversion"
	default:
		return "unknown"
	}
}
