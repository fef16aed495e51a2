package codec

import (
	"encoding/binary"
	"io"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"main/internal/model"
)

// MessageType tags the payload carried by an Envelope.
type MessageType uint16

const (
	MessageUnknown MessageType = iota
	MessageTick
	MessageEnrichedTick
	MessageSignal
	MessageOrder
	MessageOrderBookUpdate
	MessageHeartbeat
	MessageShutdown
)

func (t MessageType) String() string {
	switch t {
	case MessageTick:
		return "Tick"
	case MessageEnrichedTick:
		return "EnrichedTick"
	case MessageSignal:
		return "Signal"
	case MessageOrder:
		return "Order"
	case MessageOrderBookUpdate:
		return "OrderBookUpdate"
	case MessageHeartbeat:
		return "Heartbeat"
	case MessageShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// Heartbeat announces liveness of a pipeline component.
type Heartbeat struct {
	Sender         string      `json:"sender"`
	TimestampNanos model.Nanos `json:"timestamp_nanos"`
}

// Envelope is the tagged union passed between pipeline components.
// Exactly one payload field matching Type is set; Shutdown carries none.
type Envelope struct {
	Type      MessageType          `json:"type"`
	Tick      *model.MarketTick    `json:"tick,omitempty"`
	Enriched  *model.EnrichedTick  `json:"enriched,omitempty"`
	Signal    *model.TradingSignal `json:"signal,omitempty"`
	Order     *model.Order         `json:"order,omitempty"`
	Book      *model.OrderBook     `json:"book,omitempty"`
	Heartbeat *Heartbeat           `json:"heartbeat,omitempty"`
}

const (
	framePrefixSize = 4

	// MaxFramePayload bounds a single frame; anything larger is treated as
	// stream corruption rather than a legitimate message.
	MaxFramePayload = 1 << 22
)

var (
	ErrFrameTooLarge   = errors.New("frame payload too large")
	ErrEnvelopeMissing = errors.New("envelope payload missing for type")
)

func (e Envelope) validate() error {
	var ok bool
	switch e.Type {
	case MessageTick:
		ok = e.Tick != nil
	case MessageEnrichedTick:
		ok = e.Enriched != nil
	case MessageSignal:
		ok = e.Signal != nil
	case MessageOrder:
		ok = e.Order != nil
	case MessageOrderBookUpdate:
		ok = e.Book != nil
	case MessageHeartbeat:
		ok = e.Heartbeat != nil
	case MessageShutdown:
		ok = true
	default:
		ok = false
	}
	if !ok {
		return errors.Wrapf(ErrEnvelopeMissing, "type %s", e.Type)
	}
	return nil
}

// WriteFrame writes one envelope framed as a 4-byte big-endian length prefix
// followed by the serialized payload.
func WriteFrame(w io.Writer, env Envelope) error {
	if err := env.validate(); err != nil {
		return err
	}
	payload, err := sonic.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}
	if len(payload) > MaxFramePayload {
		return ErrFrameTooLarge
	}

	var prefix [framePrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return errors.Wrap(err, "write frame prefix")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "write frame payload")
	}
	return nil
}

// ReadFrame reads one length-prefixed envelope. io.EOF at a frame boundary
// means the stream ended cleanly.
func ReadFrame(r io.Reader) (Envelope, error) {
	var prefix [framePrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return Envelope{}, io.EOF
		}
		return Envelope{}, errors.Wrap(err, "read frame prefix")
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > MaxFramePayload {
		return Envelope{}, ErrFrameTooLarge
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, errors.Wrap(err, "read frame payload")
	}

	var env Envelope
	if err := sonic.Unmarshal(payload, &env); err != nil {
		return Envelope{}, errors.Wrap(err, "unmarshal envelope")
	}
	if err := env.validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
