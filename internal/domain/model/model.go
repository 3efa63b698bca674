// Package model contains the records exchanged between the planner core and
// its adapters.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Unassigned marks a produced match no judge could take.
const Unassigned = "unassigned"

// Validation errors for boundary records.
var (
	ErrEmptyName     = errors.New("participant name is empty")
	ErrSelfMatch     = errors.New("participant cannot meet itself")
	ErrInvalidScore  = errors.New("score must be a finite number")
	ErrInvalidRound  = errors.New("round must be positive")
	ErrEmptyJudgeRef = errors.New("judge name is empty")
)

// ParticipantRecord registers a participant before or during a tournament.
type ParticipantRecord struct {
	Name        string
	Affiliation string
}

// Validate reports whether the record can be registered.
func (p ParticipantRecord) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// MatchRecord is one finished (or freshly planned) match.
type MatchRecord struct {
	ResultID     string    // client supplied idempotency key, optional
	Round        int       // 1-based; zero when the source has no round column
	Participant1 string
	Participant2 string
	Score1       float64   // points earned by Participant1
	Score2       float64   // points earned by Participant2
	Judge        string    // empty when not recorded
	PlayedAt     time.Time // zero when unknown
}

// Validate rejects records the ranking model cannot merge.
func (m MatchRecord) Validate() error {
	if strings.TrimSpace(m.Participant1) == "" || strings.TrimSpace(m.Participant2) == "" {
		return ErrEmptyName
	}
	if m.Participant1 == m.Participant2 {
		return fmt.Errorf("%w: %s", ErrSelfMatch, m.Participant1)
	}
	if m.Round < 0 {
		return ErrInvalidRound
	}
	for _, s := range []float64{m.Score1, m.Score2} {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidScore, s)
		}
	}
	return nil
}

// Involves reports whether name plays in the match.
func (m MatchRecord) Involves(name string) bool {
	return m.Participant1 == name || m.Participant2 == name
}

// JudgeDefinition describes a judge and the matches they may not officiate.
type JudgeDefinition struct {
	Name                  string
	ForbiddenAffiliations []string
	ForbiddenParticipants []string
	// Assigned is the lifetime number of matches judged. Zero means derive it from history.
	Assigned int
}

// Validate reports whether the definition can join the pool.
func (j JudgeDefinition) Validate() error {
	if strings.TrimSpace(j.Name) == "" {
		return ErrEmptyJudgeRef
	}
	return nil
}

// ProducedMatch is a planned pairing ready to be persisted.
type ProducedMatch struct {
	ID    string
	Board int
	MatchRecord
	// Conflict is set when the judge was assigned despite having judged one of the pair.
	Conflict bool
}

// IsUnassigned reports whether no judge could be found for the match.
func (p ProducedMatch) IsUnassigned() bool {
	return p.Judge == Unassigned
}
