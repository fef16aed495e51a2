package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"main/internal/book"
	"main/internal/bus"
	"main/internal/feed"
	"main/internal/gateway"
	"main/internal/model"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/recorder"
	"main/internal/strategy"

	pyroscope "github.com/grafana/pyroscope-go"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config (default: built-in reference config)")
	listenAddr := flag.String("listen", "127.0.0.1:9999", "UDP tick listen address")
	source := flag.String("source", "udp", "Tick source: udp or binance")
	binanceSymbols := flag.String("binance-symbols", "btcusdt,ethusdt", "Comma-separated Binance stream symbols")
	recordPath := flag.String("record", "", "Record every ingested tick to this log file")
	replayPath := flag.String("replay", "", "Replay ticks from this log file instead of a live source")
	replaySpeed := flag.Float64("replay-speed", 0, "Replay speed (1=real-time, 0=no pacing)")
	metricsAddr := flag.String("metrics-addr", ":9090", "Metrics listen address (empty=disable)")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disable)")
	session := flag.String("session", "paper", "Trading session name")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "tick-engine",
			ServerAddress:   *pyroscopeAddr,
			Tags: map[string]string{
				"session": *session,
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	metrics := obs.NewMetrics()
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, metrics)
	}

	strategies, err := strategy.Build(loaded.Strategies)
	if err != nil {
		log.Fatalf("strategy build failed: %v", err)
	}

	queue := bus.NewQueue(loaded.QueueCapacity)
	gw := gateway.New(*session, metrics)
	engine := strategy.NewEngine(
		book.NewManager(loaded.Book),
		strategies,
		metrics,
		func(sig model.TradingSignal) { gw.Place(sig) },
	)

	enricher := feed.NewEnricher(queue, metrics)
	closeRecorder := func() {}
	if *recordPath != "" {
		rec, err := recorder.NewRecorder(*recordPath)
		if err != nil {
			log.Fatalf("recorder open failed: %v", err)
		}
		enricher.WithTap(func(tick model.MarketTick) {
			if err := rec.Record(tick); err != nil {
				log.Printf("record tick failed: %v", err)
			}
		})
		closeRecorder = func() {
			if err := rec.Close(); err != nil {
				log.Printf("recorder close failed: %v", err)
			}
			log.Printf("recorded %d ticks to %s", rec.Count(), *recordPath)
		}
	}

	// The consumer drains whatever the queue still buffers after the source
	// stops and the queue closes, so it runs on the background context.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		engine.Run(context.Background(), queue)
	}()

	switch {
	case *replayPath != "":
		err = runReplay(ctx, *replayPath, *replaySpeed, enricher)
	case *source == "binance":
		err = runBinance(ctx, *binanceSymbols, enricher)
	default:
		err = runUDP(ctx, *listenAddr, enricher)
	}

	queue.Close()
	wg.Wait()
	closeRecorder()

	if err != nil && ctx.Err() == nil {
		log.Fatalf("tick source failed: %v", err)
	}
	log.Printf("session %s done: %d orders placed", *session, gw.Placed())
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return ops.Default(), nil
	}
	return ops.Load(path)
}

func serveMetrics(addr string, metrics *obs.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server failed: %v", err)
	}
}

func runReplay(ctx context.Context, path string, speed float64, enricher *feed.Enricher) error {
	playback := recorder.NewPlayback(recorder.PlaybackConfig{Path: path, Speed: speed})
	return playback.Run(ctx, enricher.HandleTick)
}

func runUDP(ctx context.Context, addr string, enricher *feed.Enricher) error {
	source, err := feed.NewUDPSource(addr)
	if err != nil {
		return err
	}
	return source.Run(ctx, enricher.HandleRaw)
}

func runBinance(ctx context.Context, symbolList string, enricher *feed.Enricher) error {
	source := feed.NewBinanceSource(ctx)
	if err := source.Start(ctx); err != nil {
		return err
	}
	defer source.Close()

	symbols := strings.Split(symbolList, ",")
	if err := source.SubscribeTrades(ctx, symbols...); err != nil {
		return err
	}

	unsubscribe := source.ObserveTrades(ctx, enricher.HandleTick)
	defer unsubscribe()

	<-ctx.Done()
	return nil
}
