package ranking

import (
	"fmt"

	"github.com/okian/swissjury/internal/domain/model"
)

// entry is the mutable state behind a Participant snapshot.
type entry struct {
	name        string
	affiliation string
	score       float64
	history     []OpponentResult
}

// Book accumulates match records into participant histories. Participants
// keep the order in which they were first seen. A Book is not safe for
// concurrent use.
type Book struct {
	byeName string
	order   []*entry
	byName  map[string]*entry
}

// BookOption configures a Book.
type BookOption func(*Book)

// WithByeName names the synthetic participant. Records naming it only update
// the real participant, so the bye never enters the book.
func WithByeName(name string) BookOption {
	return func(b *Book) {
		b.byeName = name
	}
}

// NewBook returns an empty Book.
func NewBook(opts ...BookOption) *Book {
	b := &Book{byName: make(map[string]*entry)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsBye reports whether name is the configured bye name.
func (b *Book) IsBye(name string) bool {
	return b.byeName != "" && name == b.byeName
}

// Add registers a participant. An existing participant keeps its history and
// takes the affiliation if one is given.
func (b *Book) Add(name, affiliation string) {
	if b.IsBye(name) {
		return
	}
	e := b.ensure(name)
	if affiliation != "" {
		e.affiliation = affiliation
	}
}

func (b *Book) ensure(name string) *entry {
	if e, ok := b.byName[name]; ok {
		return e
	}
	e := &entry{name: name}
	b.byName[name] = e
	b.order = append(b.order, e)
	return e
}

// Record merges one finished match into both histories.
func (b *Book) Record(rec model.MatchRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	b.append(rec.Participant1, rec.Participant2, rec.Score1)
	b.append(rec.Participant2, rec.Participant1, rec.Score2)
	return nil
}

func (b *Book) append(name, opponent string, score float64) {
	if b.IsBye(name) {
		return
	}
	e := b.ensure(name)
	e.history = append(e.history, OpponentResult{Opponent: opponent, Score: score})
	e.score += score
}

// Len returns the number of known participants.
func (b *Book) Len() int { return len(b.order) }

// Participants returns snapshots of every participant in first-seen order.
func (b *Book) Participants() []Participant {
	out := make([]Participant, 0, len(b.order))
	for _, e := range b.order {
		out = append(out, b.snapshot(e))
	}
	return out
}

// Get returns a snapshot of one participant.
func (b *Book) Get(name string) (Participant, error) {
	e, ok := b.byName[name]
	if !ok {
		return Participant{}, fmt.Errorf("%w: %s", ErrUnknownParticipant, name)
	}
	return b.snapshot(e), nil
}

// MaxRounds returns the longest history length in the book.
func (b *Book) MaxRounds() int {
	n := 0
	for _, e := range b.order {
		n = max(n, len(e.history))
	}
	return n
}

// HavePlayed reports whether x and y met in any recorded match.
func (b *Book) HavePlayed(x, y string) bool {
	if e, ok := b.byName[x]; ok && hasOpponent(e.history, y) {
		return true
	}
	if e, ok := b.byName[y]; ok && hasOpponent(e.history, x) {
		return true
	}
	return false
}

func hasOpponent(history []OpponentResult, name string) bool {
	for _, h := range history {
		if h.Opponent == name {
			return true
		}
	}
	return false
}

// snapshot copies e and resolves the current total of every opponent. The bye
// counts with the mode of the real scores, as it does when it is paired.
func (b *Book) snapshot(e *entry) Participant {
	p := Participant{
		Name:           e.name,
		Affiliation:    e.affiliation,
		Score:          e.score,
		History:        make([]OpponentResult, len(e.history)),
		OpponentScores: make([]float64, len(e.history)),
	}
	copy(p.History, e.history)
	byeScore, byeKnown := 0.0, false
	for i, h := range e.history {
		if o, ok := b.byName[h.Opponent]; ok {
			p.OpponentScores[i] = o.score
			continue
		}
		if b.IsBye(h.Opponent) {
			if !byeKnown {
				byeScore, byeKnown = b.modeScore(), true
			}
			p.OpponentScores[i] = byeScore
		}
	}
	return p
}

func (b *Book) modeScore() float64 {
	ps := make([]Participant, len(b.order))
	for i, e := range b.order {
		ps[i] = Participant{Score: e.score}
	}
	return ModeScore(ps)
}
