// Package textfile reads and writes the plain-text tournament files: the
// results log, the participant list and the YAML judge definitions.
//
// Results log format, one board per line, rounds separated by blank lines:
//
//	Alpha vs Beta --> 1 vs 0 | Judge Name
//	Gamma vs Delta --> 0.5 vs 0.5
//
// The judge suffix is optional. Planned rounds are appended with zero scores.
package textfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/internal/domain/round"
)

const (
	scoreSep = " --> "
	sideSep  = " vs "
	judgeSep = " | "
)

// ParseResults reads a results log. Block i (0-based) of non-blank lines is round i+1.
func ParseResults(r io.Reader) ([]model.MatchRecord, error) {
	var (
		out     []model.MatchRecord
		roundNo = 1
		inBlock bool
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if inBlock {
				roundNo++
				inBlock = false
			}
			continue
		}
		inBlock = true
		rec, err := parseResultLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rec.Round = roundNo
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return out, nil
}

func parseResultLine(line string) (model.MatchRecord, error) {
	var rec model.MatchRecord

	body, judge, hasJudge := strings.Cut(line, judgeSep)
	if hasJudge {
		rec.Judge = strings.TrimSpace(judge)
	}

	sides, scores, ok := strings.Cut(body, scoreSep)
	if !ok {
		return rec, fmt.Errorf("%w: missing %q in %q", ErrMalformedLine, strings.TrimSpace(scoreSep), line)
	}
	p1, p2, ok := strings.Cut(sides, sideSep)
	if !ok {
		return rec, fmt.Errorf("%w: missing %q between participants in %q", ErrMalformedLine, strings.TrimSpace(sideSep), line)
	}
	s1, s2, ok := strings.Cut(scores, sideSep)
	if !ok {
		return rec, fmt.Errorf("%w: missing %q between scores in %q", ErrMalformedLine, strings.TrimSpace(sideSep), line)
	}

	rec.Participant1 = strings.TrimSpace(p1)
	rec.Participant2 = strings.TrimSpace(p2)

	var err error
	if rec.Score1, err = strconv.ParseFloat(strings.TrimSpace(s1), 64); err != nil {
		return rec, fmt.Errorf("%w: score %q: %w", ErrMalformedLine, s1, err)
	}
	if rec.Score2, err = strconv.ParseFloat(strings.TrimSpace(s2), 64); err != nil {
		return rec, fmt.Errorf("%w: score %q: %w", ErrMalformedLine, s2, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return rec, nil
}

// FormatResult renders one results log line.
func FormatResult(rec model.MatchRecord) string {
	line := rec.Participant1 + sideSep + rec.Participant2 + scoreSep +
		formatScore(rec.Score1) + sideSep + formatScore(rec.Score2)
	if rec.Judge != "" {
		line += judgeSep + rec.Judge
	}
	return line
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// WriteRound appends a planned round: the boards in order, the bye line if
// any, and the blank separator line.
func WriteRound(w io.Writer, plan round.Plan) error {
	bw := bufio.NewWriter(w)
	for _, m := range plan.Matches {
		if _, err := fmt.Fprintln(bw, FormatResult(m.MatchRecord)); err != nil {
			return fmt.Errorf("write round %d: %w", plan.Round, err)
		}
	}
	if plan.Bye != nil {
		if _, err := fmt.Fprintln(bw, FormatResult(plan.Bye.MatchRecord)); err != nil {
			return fmt.Errorf("write round %d: %w", plan.Round, err)
		}
	}
	if _, err := fmt.Fprintln(bw); err != nil {
		return fmt.Errorf("write round %d: %w", plan.Round, err)
	}
	return bw.Flush()
}
