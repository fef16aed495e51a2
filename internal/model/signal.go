package model

import "main/internal/model/enum"

// TradingSignal is a strategy's request to trade. Consumed once downstream.
type TradingSignal struct {
	Symbol         string          `json:"symbol"`
	Side           enum.Side       `json:"side"`
	Price          float64         `json:"price"`
	Quantity       float64         `json:"quantity"`
	SignalType     enum.SignalType `json:"signal_type"`
	TimestampNanos Nanos           `json:"timestamp_nanos"`
}

// Order is a placed order derived from a signal.
type Order struct {
	OrderID        uint64    `json:"order_id"`
	Symbol         string    `json:"symbol"`
	Side           enum.Side `json:"side"`
	Price          float64   `json:"price"`
	Quantity       float64   `json:"quantity"`
	TimestampNanos Nanos     `json:"timestamp_nanos"`
}
