package simulate

import (
	"fmt"
	"slices"

	"github.com/okian/swissjury/internal/domain/types"
)

// verifier tracks what the simulated tournament has seen so every planned
// round can be checked against the rules the planner must keep.
type verifier struct {
	players map[string]player
	judges  map[string]judge
	met     map[[2]string]bool
}

func newVerifier(field []player, judges []judge) *verifier {
	v := &verifier{
		players: make(map[string]player, len(field)),
		judges:  make(map[string]judge, len(judges)),
		met:     make(map[[2]string]bool),
	}
	for _, p := range field {
		v.players[p.Name] = p
	}
	for _, j := range judges {
		v.judges[j.Name] = j
	}
	return v
}

func meeting(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// checkRound verifies that round r seats every participant exactly once,
// that the reported rematch count matches the history, and that no judge
// sits a board involving an affiliation they are barred from.
func (v *verifier) checkRound(r int, rd types.Round) error {
	if rd.Round != r {
		return fmt.Errorf("%w: planned round %d, want %d", ErrInvalidPlan, rd.Round, r)
	}

	seated := make(map[string]int, len(v.players))
	rematches := 0
	boards := rd.Matches
	if rd.Bye != nil {
		boards = append(slices.Clone(boards), *rd.Bye)
	}
	for _, m := range boards {
		key := meeting(m.Participant1, m.Participant2)
		if v.met[key] {
			rematches++
		}
		v.met[key] = true

		for _, name := range []string{m.Participant1, m.Participant2} {
			if _, ok := v.players[name]; ok {
				seated[name]++
			}
		}
		if err := v.checkJudge(m); err != nil {
			return err
		}
	}

	for name := range v.players {
		if seated[name] != 1 {
			return fmt.Errorf("%w: round %d seats %s %d times", ErrInvalidPlan, r, name, seated[name])
		}
	}
	if rematches != rd.Rematches {
		return fmt.Errorf("%w: round %d reports %d rematches, found %d", ErrInvalidPlan, r, rd.Rematches, rematches)
	}
	return nil
}

func (v *verifier) checkJudge(m types.Match) error {
	j, ok := v.judges[m.Judge]
	if !ok {
		return nil
	}
	for _, name := range []string{m.Participant1, m.Participant2} {
		if slices.Contains(j.Forbidden, v.players[name].Affiliation) {
			return fmt.Errorf("%w: judge %s sits board %d with %s of %s",
				ErrInvalidPlan, j.Name, m.Board, name, v.players[name].Affiliation)
		}
	}
	return nil
}

// checkStandings verifies the table lists every participant once, ordered
// by score, with ranks that never decrease.
func (v *verifier) checkStandings(table []types.Entry) error {
	if len(table) != len(v.players) {
		return fmt.Errorf("%w: %d entries for %d participants", ErrInvalidStandings, len(table), len(v.players))
	}
	for i := 1; i < len(table); i++ {
		prev, cur := table[i-1], table[i]
		if cur.Score > prev.Score {
			return fmt.Errorf("%w: %s (%.1f) ranked below %s (%.1f)", ErrInvalidStandings, cur.Name, cur.Score, prev.Name, prev.Score)
		}
		if cur.Rank < prev.Rank {
			return fmt.Errorf("%w: rank %d follows rank %d", ErrInvalidStandings, cur.Rank, prev.Rank)
		}
	}
	return nil
}
