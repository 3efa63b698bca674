package ranking

// ModeScore returns the most frequent score in ps. Among equally frequent
// scores the one appearing first in ps wins. An empty slice gives 0.
func ModeScore(ps []Participant) float64 {
	counts := make(map[float64]int, len(ps))
	maxN := 0
	for _, p := range ps {
		counts[p.Score]++
		maxN = max(maxN, counts[p.Score])
	}
	for _, p := range ps {
		if counts[p.Score] == maxN {
			return p.Score
		}
	}
	return 0
}

// NewBye builds the synthetic participant added to an odd field. It carries
// the mode of the real scores so it pairs with the crowded score group.
func NewBye(name string, ps []Participant) Participant {
	return Participant{Name: name, Score: ModeScore(ps)}
}
