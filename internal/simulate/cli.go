package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/swissjury/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger on stdout and, when logFile
// is set, on that file as well.
func SetupLogging(logFile string) error {
	if logFile == "" {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file), false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`swissjury tournament simulator
==============================

Plays a complete Swiss tournament against a running planner: registers a
generated field and judge pool, plans every round, reports random results
and checks every plan and the final standings.

Usage:
  simulate [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -participants int
        Number of participants (default 32)
  -affiliations int
        Number of affiliations the field is spread over (default 4)
  -judges int
        Number of judges (default 8)
  -rounds int
        Number of rounds to play (default 5)
  -workers int
        Concurrent result submissions (default CPU cores)
  -seed int
        Seed for the field and the results (default: current time)
  -draws float
        Probability that a board is drawn (default 0.1)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write the log to this file
  -verbose
        Log every planned round
  -help
        Show this help message
`)
}
