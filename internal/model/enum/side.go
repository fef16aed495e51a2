package enum

// Side is the direction of a trading signal or order.
type Side uint8

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

// IsAvailable reports whether the side is a known value.
func (s Side) IsAvailable() bool {
	switch s {
	case SideBuy, SideSell:
		return true
	default:
		return false
	}
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}
