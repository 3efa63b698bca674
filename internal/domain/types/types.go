// Package types contains the JSON shapes served by the API.
package types

import (
	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/internal/domain/ranking"
)

// Entry is one row of the standings table.
type Entry struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Affiliation string  `json:"affiliation,omitempty"`
	Score       float64 `json:"score"`
	Buchholz    float64 `json:"buchholz"`
	Rounds      int     `json:"rounds"`
}

// NewEntry converts a standing to its JSON row.
func NewEntry(s ranking.Standing) Entry {
	return Entry{
		Rank:        s.Rank,
		Name:        s.Name,
		Affiliation: s.Affiliation,
		Score:       s.Score,
		Buchholz:    ranking.Buchholz(s.Participant, 0),
		Rounds:      s.Rounds(),
	}
}

// Match is a planned or played board.
type Match struct {
	ID           string  `json:"id,omitempty"`
	Board        int     `json:"board,omitempty"`
	Round        int     `json:"round"`
	Participant1 string  `json:"participant1"`
	Participant2 string  `json:"participant2"`
	Score1       float64 `json:"score1"`
	Score2       float64 `json:"score2"`
	Judge        string  `json:"judge,omitempty"`
	Conflict     bool    `json:"conflict,omitempty"`
}

// NewMatch converts a produced match to its JSON shape.
func NewMatch(m model.ProducedMatch) Match {
	return Match{
		ID:           m.ID,
		Board:        m.Board,
		Round:        m.Round,
		Participant1: m.Participant1,
		Participant2: m.Participant2,
		Score1:       m.Score1,
		Score2:       m.Score2,
		Judge:        m.Judge,
		Conflict:     m.Conflict,
	}
}

// Round is a planned round as served by the API.
type Round struct {
	Round      int     `json:"round"`
	Matches    []Match `json:"matches"`
	Bye        *Match  `json:"bye,omitempty"`
	Strategy   string  `json:"strategy"`
	Cost       float64 `json:"cost"`
	LowerBound float64 `json:"lower_bound"`
	Iterations int     `json:"iterations"`
	Rematches  int     `json:"rematches"`
	Conflicts  int     `json:"conflicts"`
	Unassigned int     `json:"unassigned"`
}
