package model

import (
	"math"
	"math/bits"
	"strconv"
	"time"

	"github.com/yanun0323/errors"
)

var (
	ErrNanosMalformed = errors.New("malformed nanos value")
	ErrNanosOverflow  = errors.New("nanos value overflows 128 bits")
)

// Nanos is an unsigned 128-bit nanosecond timestamp since the Unix epoch.
// It marshals to an exact decimal JSON integer; the value is never routed
// through float64, so full precision survives a wire round trip.
type Nanos struct {
	Hi uint64
	Lo uint64
}

// NanosFromUint64 builds a timestamp from a 64-bit nanosecond value.
func NanosFromUint64(v uint64) Nanos {
	return Nanos{Lo: v}
}

// NanosNow returns the current wall clock in nanoseconds since the Unix epoch.
func NanosNow() Nanos {
	return Nanos{Lo: uint64(time.Now().UnixNano())}
}

func (n Nanos) IsZero() bool {
	return n.Hi == 0 && n.Lo == 0
}

// Cmp returns -1 if n < o, 0 if n == o, and 1 if n > o.
func (n Nanos) Cmp(o Nanos) int {
	switch {
	case n.Hi < o.Hi:
		return -1
	case n.Hi > o.Hi:
		return 1
	case n.Lo < o.Lo:
		return -1
	case n.Lo > o.Lo:
		return 1
	default:
		return 0
	}
}

// AddNanos returns n shifted by d nanoseconds. d may be negative.
func (n Nanos) AddNanos(d int64) Nanos {
	if d >= 0 {
		lo, carry := bits.Add64(n.Lo, uint64(d), 0)
		return Nanos{Hi: n.Hi + carry, Lo: lo}
	}
	lo, borrow := bits.Sub64(n.Lo, uint64(-d), 0)
	return Nanos{Hi: n.Hi - borrow, Lo: lo}
}

// DeltaNanos returns the signed difference n - o in nanoseconds, saturating
// at the int64 bounds. Skewed clocks yield a representable negative value
// instead of wrapping.
func (n Nanos) DeltaNanos(o Nanos) int64 {
	lo, borrow := bits.Sub64(n.Lo, o.Lo, 0)
	hi, _ := bits.Sub64(n.Hi, o.Hi, borrow)

	// hi:lo holds the two's-complement 128-bit difference.
	if hi == 0 {
		if lo > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(lo)
	}
	if hi == ^uint64(0) && int64(lo) < 0 {
		return int64(lo)
	}
	if hi>>63 != 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}

const decimalBlock = uint64(1e19)

// AppendString appends the decimal representation of n to buf.
func (n Nanos) AppendString(buf []byte) []byte {
	if n.Hi == 0 {
		return strconv.AppendUint(buf, n.Lo, 10)
	}

	// Long division by 1e19: at most three 19-digit blocks for 128 bits.
	var blocks [2]uint64
	count := 0
	hi, lo := n.Hi, n.Lo
	for hi != 0 {
		qhi := hi / decimalBlock
		rem := hi % decimalBlock
		qlo, r := bits.Div64(rem, lo, decimalBlock)
		blocks[count] = r
		count++
		hi, lo = qhi, qlo
	}

	buf = strconv.AppendUint(buf, lo, 10)
	for i := count - 1; i >= 0; i-- {
		buf = appendZeroPadded(buf, blocks[i], 19)
	}
	return buf
}

func (n Nanos) String() string {
	return string(n.AppendString(nil))
}

func appendZeroPadded(buf []byte, v uint64, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendUint(tmp[:0], v, 10)
	for i := len(digits); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, digits...)
}

// ParseNanos parses an unsigned decimal string into a 128-bit timestamp.
func ParseNanos(s string) (Nanos, error) {
	if len(s) == 0 {
		return Nanos{}, ErrNanosMalformed
	}
	var n Nanos
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Nanos{}, errors.Wrapf(ErrNanosMalformed, "unexpected byte %q", c)
		}

		loHi, loLo := bits.Mul64(n.Lo, 10)
		hiHi, hiLo := bits.Mul64(n.Hi, 10)
		if hiHi != 0 {
			return Nanos{}, ErrNanosOverflow
		}
		newHi, carry := bits.Add64(hiLo, loHi, 0)
		if carry != 0 {
			return Nanos{}, ErrNanosOverflow
		}
		lo, carry := bits.Add64(loLo, uint64(c-'0'), 0)
		hi, carry := bits.Add64(newHi, 0, carry)
		if carry != 0 {
			return Nanos{}, ErrNanosOverflow
		}
		n = Nanos{Hi: hi, Lo: lo}
	}
	return n, nil
}

// MarshalJSON encodes the timestamp as a raw decimal JSON integer.
func (n Nanos) MarshalJSON() ([]byte, error) {
	return n.AppendString(nil), nil
}

// UnmarshalJSON accepts a decimal integer, quoted or not.
func (n *Nanos) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	parsed, err := ParseNanos(string(data))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
