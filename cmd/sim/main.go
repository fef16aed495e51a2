package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"main/internal/codec"
	"main/internal/sim"
)

func main() {
	targetAddr := flag.String("target", "127.0.0.1:9999", "UDP address to send ticks to")
	rate := flag.Int("rate", 1000, "Ticks per second")
	count := flag.Int("count", 0, "Total ticks to send (0=until interrupted)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random walk seed")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *rate <= 0 {
		log.Fatalf("rate must be > 0, got %d", *rate)
	}

	conn, err := net.Dial("udp", *targetAddr)
	if err != nil {
		log.Fatalf("dial %s failed: %v", *targetAddr, err)
	}
	defer conn.Close()

	gen, err := sim.NewGenerator(sim.DefaultBasePrices, *seed)
	if err != nil {
		log.Fatalf("generator setup failed: %v", err)
	}

	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	sent := 0
	for *count == 0 || sent < *count {
		select {
		case <-ctx.Done():
			log.Printf("interrupted after %d ticks", sent)
			return
		case <-ticker.C:
		}

		data, err := codec.EncodeTick(gen.Next())
		if err != nil {
			log.Fatalf("encode tick failed: %v", err)
		}
		if _, err := conn.Write(data); err != nil {
			log.Fatalf("send tick failed: %v", err)
		}
		sent++
	}
	log.Printf("sent %d ticks to %s", sent, *targetAddr)
}
