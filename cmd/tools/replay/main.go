package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"main/internal/recorder"
)

func main() {
	path := flag.String("file", "", "Replay log file")
	dump := flag.Bool("dump", false, "Print every recorded tick")
	limit := flag.Int("limit", 0, "Max ticks to dump (0=all)")
	flag.Parse()

	if *path == "" {
		log.Fatal("-file is required")
	}

	if *dump {
		if err := dumpTicks(*path, *limit); err != nil {
			log.Fatalf("dump failed: %v", err)
		}
	}

	stats, err := recorder.CollectStats(*path)
	if err != nil {
		log.Fatalf("stats failed: %v", err)
	}

	fmt.Printf("ticks:    %d\n", stats.TotalTicks)
	fmt.Printf("start:    %s\n", stats.StartTimestamp)
	fmt.Printf("end:      %s\n", stats.EndTimestamp)
	fmt.Printf("duration: %dms\n", stats.DurationMS)
	fmt.Printf("symbols:  %s\n", strings.Join(stats.Symbols, ", "))
}

func dumpTicks(path string, limit int) error {
	r, err := recorder.OpenReplayer(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for i := 0; limit == 0 || i < limit; i++ {
		tick, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %.8f x%d\n", tick.TimestampNanos, tick.Symbol, tick.Price, tick.Volume)
	}
	return nil
}
