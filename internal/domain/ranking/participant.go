// Package ranking holds cumulative scores and opponent histories and orders
// participants by score with a Buchholz tie-break.
package ranking

import (
	"slices"
)

// OpponentResult is one entry of a participant's history.
type OpponentResult struct {
	Opponent string
	Score    float64 // points this participant earned in the match
}

// Participant is a value snapshot of one competitor.
//
// Score always equals the sum of History scores. OpponentScores is aligned
// with History and holds each opponent's total at snapshot time.
type Participant struct {
	Name           string
	Affiliation    string
	Score          float64
	History        []OpponentResult
	OpponentScores []float64
}

// Rounds returns the number of matches in the history.
func (p Participant) Rounds() int { return len(p.History) }

// HasPlayed reports whether opponent appears in the history.
func (p Participant) HasPlayed(opponent string) bool {
	return hasOpponent(p.History, opponent)
}

// Clone returns a deep copy.
func (p Participant) Clone() Participant {
	p.History = slices.Clone(p.History)
	p.OpponentScores = slices.Clone(p.OpponentScores)
	return p
}

// Buchholz sums the opponents' scores after dropping the k weakest.
// k <= 0 gives the full sum; k >= the opponent count gives 0.
func Buchholz(p Participant, k int) float64 {
	if k < 0 {
		k = 0
	}
	if k >= len(p.OpponentScores) {
		return 0
	}
	scores := slices.Clone(p.OpponentScores)
	slices.Sort(scores)
	var sum float64
	for _, s := range scores[k:] {
		sum += s
	}
	return sum
}

// CompareRank returns a positive number when a ranks above b, negative when
// below and zero when they are tied.
//
// Equal scores are split by scanning k upward while the k-trimmed Buchholz
// values agree and k is below a's opponent count. The bound only looks at a,
// so the relation is not guaranteed transitive across participants with
// different history lengths.
func CompareRank(a, b Participant) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return 1
		}
		return -1
	}
	k := 0
	for Buchholz(a, k) == Buchholz(b, k) && k < len(a.History) {
		k++
	}
	ba, bb := Buchholz(a, k), Buchholz(b, k)
	switch {
	case ba > bb:
		return 1
	case ba < bb:
		return -1
	default:
		return 0
	}
}

// SortByRank orders ps best first. Ties keep their input order.
func SortByRank(ps []Participant) {
	slices.SortStableFunc(ps, func(a, b Participant) int {
		return CompareRank(b, a)
	})
}
