package simulate

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

const (
	meanStrength   = 1500.0
	strengthSpread = 200.0
	eloScale       = 400.0
)

// player is a generated participant with a hidden playing strength.
type player struct {
	Name        string
	Affiliation string
	Strength    float64
}

type judge struct {
	Name      string
	Forbidden []string
}

// shortID returns the first block of a random UUID.
func shortID() string {
	return uuid.NewString()[:8]
}

func affiliationName(i int) string {
	return "Club-" + strconv.Itoa(i+1)
}

// newField generates n players spread round-robin over the affiliations.
func newField(rng *rand.Rand, n, affiliations int) []player {
	if affiliations < 1 {
		affiliations = 1
	}
	field := make([]player, n)
	for i := range field {
		field[i] = player{
			Name:        "P-" + shortID(),
			Affiliation: affiliationName(i % affiliations),
			Strength:    meanStrength + rng.NormFloat64()*strengthSpread,
		}
	}
	return field
}

// newJudges generates n judges, each barred from one affiliation.
func newJudges(rng *rand.Rand, n, affiliations int) []judge {
	if affiliations < 1 {
		affiliations = 1
	}
	out := make([]judge, n)
	for i := range out {
		out[i] = judge{
			Name:      "J-" + shortID(),
			Forbidden: []string{affiliationName(rng.Intn(affiliations))},
		}
	}
	return out
}

// outcome draws a board result from the Elo expectation of a against b.
func outcome(rng *rand.Rand, a, b player, drawRate float64) (float64, float64) {
	if rng.Float64() < drawRate {
		return 0.5, 0.5
	}
	expected := 1 / (1 + math.Pow(10, (b.Strength-a.Strength)/eloScale))
	if rng.Float64() < expected {
		return 1, 0
	}
	return 0, 1
}
