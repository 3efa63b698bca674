package textfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/okian/swissjury/internal/domain/model"
)

// ParseParticipants reads a participant list: one "Name" or
// "Name | Affiliation" per line. Blank lines and lines starting with # are
// skipped.
func ParseParticipants(r io.Reader) ([]model.ParticipantRecord, error) {
	var (
		out    []model.ParticipantRecord
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, affiliation, _ := strings.Cut(line, "|")
		p := model.ParticipantRecord{
			Name:        strings.TrimSpace(name),
			Affiliation: strings.TrimSpace(affiliation),
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", lineNo, ErrMalformedLine, err)
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read participants: %w", err)
	}
	return out, nil
}
