package codec

import (
	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"main/internal/model"
)

var ErrInvalidTick = errors.New("invalid tick")

// EncodeTick serializes a tick as a self-describing JSON record.
// The 128-bit timestamp is emitted as an exact decimal integer.
func EncodeTick(tick model.MarketTick) ([]byte, error) {
	data, err := sonic.Marshal(tick)
	if err != nil {
		return nil, errors.Wrap(err, "marshal tick")
	}
	return data, nil
}

// DecodeTick parses one serialized tick. A decode failure is the caller's
// signal to drop the record; validation failures are reported the same way.
func DecodeTick(data []byte) (model.MarketTick, error) {
	var tick model.MarketTick
	if err := sonic.Unmarshal(data, &tick); err != nil {
		return model.MarketTick{}, errors.Wrap(err, "unmarshal tick")
	}
	if tick.Symbol == "" {
		return model.MarketTick{}, errors.Wrap(ErrInvalidTick, "empty symbol")
	}
	return tick, nil
}
