// Package judging assigns one judge to each match of a round.
package judging

import (
	"maps"
	"slices"

	"github.com/okian/swissjury/internal/domain/model"
)

// Judge is the assignment state of one official.
type Judge struct {
	Name                  string
	ForbiddenAffiliations []string
	ForbiddenParticipants []string
	// Judged holds every participant this judge has officiated. It only grows.
	Judged map[string]struct{}
	// Count is the lifetime number of matches judged.
	Count int
}

// NewJudge builds a judge with an empty judged set from its definition.
func NewJudge(def model.JudgeDefinition) Judge {
	return Judge{
		Name:                  def.Name,
		ForbiddenAffiliations: slices.Clone(def.ForbiddenAffiliations),
		ForbiddenParticipants: slices.Clone(def.ForbiddenParticipants),
		Judged:                make(map[string]struct{}),
		Count:                 def.Assigned,
	}
}

// HasJudged reports whether the judge already officiated name.
func (j Judge) HasJudged(name string) bool {
	_, ok := j.Judged[name]
	return ok
}

// MarkJudged records that the judge officiated name.
func (j *Judge) MarkJudged(name string) {
	if j.Judged == nil {
		j.Judged = make(map[string]struct{})
	}
	j.Judged[name] = struct{}{}
}

// JudgedNames returns the judged set sorted by name.
func (j Judge) JudgedNames() []string {
	return slices.Sorted(maps.Keys(j.Judged))
}

// Clone returns a deep copy.
func (j Judge) Clone() Judge {
	j.ForbiddenAffiliations = slices.Clone(j.ForbiddenAffiliations)
	j.ForbiddenParticipants = slices.Clone(j.ForbiddenParticipants)
	j.Judged = maps.Clone(j.Judged)
	if j.Judged == nil {
		j.Judged = make(map[string]struct{})
	}
	return j
}

// Contestant is the part of a participant the assigner looks at.
type Contestant struct {
	Name        string
	Affiliation string
}

// Match is one pairing waiting for a judge.
type Match struct {
	A Contestant
	B Contestant
}

// excluded reports a violation that can never be relaxed: a forbidden
// affiliation or a forbidden participant on either side.
func (j Judge) excluded(m Match) bool {
	for _, c := range []Contestant{m.A, m.B} {
		if c.Affiliation != "" && slices.Contains(j.ForbiddenAffiliations, c.Affiliation) {
			return true
		}
		if slices.Contains(j.ForbiddenParticipants, c.Name) {
			return true
		}
	}
	return false
}

// repeats counts the participants of m this judge has already officiated.
func (j Judge) repeats(m Match) int {
	n := 0
	if j.HasJudged(m.A.Name) {
		n++
	}
	if j.HasJudged(m.B.Name) {
		n++
	}
	return n
}
