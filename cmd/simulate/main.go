package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/swissjury/internal/simulate"
)

// Default configuration constants.
const (
	defaultParticipants = 32
	defaultAffiliations = 4
	defaultJudges       = 8
	defaultRounds       = 5
	defaultDrawRate     = 0.1
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		participants = flag.Int("participants", defaultParticipants, "Number of participants")
		affiliations = flag.Int("affiliations", defaultAffiliations, "Number of affiliations the field is spread over")
		judges       = flag.Int("judges", defaultJudges, "Number of judges")
		rounds       = flag.Int("rounds", defaultRounds, "Number of rounds to play")
		workers      = flag.Int("workers", runtime.NumCPU(), "Concurrent result submissions")
		seed         = flag.Int64("seed", 0, "Seed for the field and the results (default: current time)")
		draws        = flag.Float64("draws", defaultDrawRate, "Probability that a board is drawn")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile      = flag.String("log", "", "Also write the log to this file")
		verbose      = flag.Bool("verbose", false, "Log every planned round")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:      *baseURL,
		Participants: *participants,
		Affiliations: *affiliations,
		Judges:       *judges,
		Rounds:       *rounds,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *seed,
		DrawRate:     *draws,
		Verbose:      *verbose,
	}

	if _, err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
