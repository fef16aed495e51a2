package model

// MarketTick is a single price observation at origin time.
// Immutable once created.
type MarketTick struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	Volume         uint64  `json:"volume"`
	TimestampNanos Nanos   `json:"timestamp_nanos"`
}

// EnrichedTick is a MarketTick stamped with receive time and transit latency.
// Created exactly once per successfully parsed tick.
type EnrichedTick struct {
	Tick             MarketTick `json:"tick"`
	ReceiveTimeNanos Nanos      `json:"receive_time_nanos"`
	// LatencyMicros is (receive - origin) / 1000 with signed arithmetic.
	// Negative values indicate clock skew and are kept, not clamped.
	LatencyMicros float64 `json:"latency_micros"`
}
