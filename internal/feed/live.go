package feed

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"main/internal/model"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"
)

const _binanceMarketWsUrl = "wss://data-stream.binance.vision/ws"

// BinanceSource streams public trade events and converts each into a
// MarketTick, standing in for the UDP source when running against a real
// market.
type BinanceSource struct {
	wss *ws.WebSocket
}

func NewBinanceSource(ctx context.Context) *BinanceSource {
	return &BinanceSource{
		wss: ws.New(ctx, _binanceMarketWsUrl),
	}
}

func (s *BinanceSource) Start(ctx context.Context) error {
	if err := s.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

func (s *BinanceSource) Close() {
	s.wss.Close()
}

type binanceSubscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

type binanceSubscribeResponse struct {
	ID     int64 `json:"id"`
	Result any   `json:"result"`
}

// SubscribeTrades subscribes the 'Trade Streams' channel for each symbol.
func (s *BinanceSource) SubscribeTrades(ctx context.Context, symbols ...string) error {
	params := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		params = append(params, fmt.Sprintf("%s@trade", strings.ToLower(symbol)))
	}

	appendIntoRegister := true
	if err := s.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, ws *ws.WebSocket) error {
			payload := binanceSubscribeRequest{
				Method: "SUBSCRIBE",
				Params: params,
				ID:     1,
			}

			if err := ws.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write subscribe payload").With("payload", payload)
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			var resp binanceSubscribeResponse
			if err := m.Unmarshal(&resp); err != nil || resp.ID != 1 {
				return false, nil
			}

			if resp.Result != nil {
				return false, errors.Errorf("subscribe and wait, err: %+v", resp.Result)
			}
			return true, nil
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait")
	}

	return nil
}

type binanceTrade struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	TradeTime int64  `json:"T"`
}

// ObserveTrades delivers each trade event as a MarketTick until the context
// is cancelled or the stream closes.
func (s *BinanceSource) ObserveTrades(ctx context.Context, handler func(tick model.MarketTick)) (unsubscribe func()) {
	ch, cancel := s.wss.Subscribe()

	go func() {
		defer cancel()
		for {
			select {
			case <-sys.Shutdown():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}

				trade, ok := ws.ReadMessage[binanceTrade](m)
				if !ok || trade.EventType != "trade" {
					continue
				}

				tick, err := tickFromTrade(trade)
				if err != nil {
					logs.Warnf("skip unparsable trade event: %v", err)
					continue
				}

				handler(tick)
			}
		}
	}()

	return cancel
}

func tickFromTrade(trade binanceTrade) (model.MarketTick, error) {
	price, err := strconv.ParseFloat(trade.Price, 64)
	if err != nil {
		return model.MarketTick{}, errors.Wrapf(err, "parse trade price %q", trade.Price)
	}
	qty, err := strconv.ParseFloat(trade.Quantity, 64)
	if err != nil {
		return model.MarketTick{}, errors.Wrapf(err, "parse trade quantity %q", trade.Quantity)
	}

	// Fractional trade sizes round up so a real fill never counts as zero
	// volume.
	return model.MarketTick{
		Symbol:         trade.Symbol,
		Price:          price,
		Volume:         uint64(math.Ceil(qty)),
		TimestampNanos: model.NanosFromUint64(uint64(trade.TradeTime) * 1_000_000),
	}, nil
}
