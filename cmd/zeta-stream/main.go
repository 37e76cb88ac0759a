// Command zeta-stream streams nontrivial zeros of the Riemann zeta
// function from the LMFDB archive to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"

	"github.com/VictorVanWeyenberg/zeta"
	"github.com/VictorVanWeyenberg/zeta/cmd/internal/zetaconfig"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := flag.String("cfg", "", "Location of a YAML config file (base URL, index DB path, metrics address, HTTP timeout).")
	fromT := flag.Float64("from-t", 0, "Start streaming at the first zero with imaginary part >= this value.")
	fromN := flag.Uint64("from-n", 0, "Start streaming at this global zero index. Ignored if -from-t is set.")
	count := flag.Uint64("count", 0, "Stop after this many zeros. 0 means unbounded.")
	quiet := flag.Bool("quiet", false, "Suppress the per-zero progress line; print only a final count.")
	flag.Parse()

	cfg := &zetaconfig.Config{}
	if *configPath != "" {
		var err error
		cfg, err = zetaconfig.FromFile(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	zcfg := zeta.Config{
		BaseURL:     cfg.Base(),
		IndexDBPath: cfg.IndexDB(),
		HTTPTimeout: timeout,
	}

	pattern := seekPattern(*fromT, *fromN, *count)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go metrics(cfg.MetricsAddr)
	}

	sink := &progressSink{quiet: *quiet}
	if err := zeta.StreamWithConfig(ctx, sink, pattern, zcfg); err != nil {
		log.Fatalf("stream failed after %d zeros: %v", sink.amt, err)
	}
	fmt.Printf("\nZeros streamed: %d\n", sink.amt)
}

// seekPattern derives a SeekPattern from the CLI's flags: -from-t takes
// priority over -from-n, and a zero -count means unbounded.
func seekPattern(fromT float64, fromN, count uint64) zeta.SeekPattern {
	switch {
	case fromT != 0 && count != 0:
		return zeta.FromTCount(fromT, count)
	case fromT != 0:
		return zeta.FromT(fromT)
	case count != 0:
		return zeta.FromNCount(fromN, count)
	case fromN != 0:
		return zeta.FromN(fromN)
	default:
		return zeta.All()
	}
}

// progressSink is a zeta.Consumer that prints a running count, matching
// the original tooling's "\rZeros streamed: %d" line.
type progressSink struct {
	amt   uint64
	quiet bool
}

func (s *progressSink) IsClosed() bool { return false }

func (s *progressSink) OnZero(index uint64, value *big.Float) {
	s.amt++
	if !s.quiet {
		fmt.Printf("\rZeros streamed: %d", s.amt)
	}
}
