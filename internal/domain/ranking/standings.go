package ranking

// Standing is a participant with its position in the table.
type Standing struct {
	Rank int
	Participant
}

// Standings sorts a copy of ps best first and assigns dense ranks: entries
// that compare equal to their predecessor share its rank and the next
// distinct entry takes the following number.
func Standings(ps []Participant) []Standing {
	sorted := make([]Participant, len(ps))
	copy(sorted, ps)
	SortByRank(sorted)

	out := make([]Standing, len(sorted))
	rank := 0
	for i, p := range sorted {
		if i == 0 || CompareRank(sorted[i-1], p) != 0 {
			rank++
		}
		out[i] = Standing{Rank: rank, Participant: p}
	}
	return out
}
