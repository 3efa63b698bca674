package textfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/okian/swissjury/internal/domain/round"
)

// Paths locates the tournament files. Empty paths are skipped.
type Paths struct {
	Results      string
	Participants string
	Judges       string
}

// Load reads every configured file into a round input. A missing results
// file means no rounds have been played yet.
func Load(p Paths) (round.Input, error) {
	var in round.Input

	if p.Results != "" {
		f, err := os.Open(p.Results)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return in, fmt.Errorf("open results: %w", err)
		default:
			defer f.Close()
			if in.History, err = ParseResults(f); err != nil {
				return in, fmt.Errorf("%s: %w", p.Results, err)
			}
		}
	}

	if p.Participants != "" {
		f, err := os.Open(p.Participants)
		if err != nil {
			return in, fmt.Errorf("open participants: %w", err)
		}
		defer f.Close()
		if in.Participants, err = ParseParticipants(f); err != nil {
			return in, fmt.Errorf("%s: %w", p.Participants, err)
		}
	}

	if p.Judges != "" {
		judges, err := LoadJudges(p.Judges)
		if err != nil {
			return in, err
		}
		in.Judges = judges
	}

	return in, nil
}

// AppendRound appends a planned round to the results file, creating it if needed.
func AppendRound(path string, plan round.Plan) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results for append: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close results: %w", cerr)
		}
	}()
	return WriteRound(f, plan)
}
