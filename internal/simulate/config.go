// Package simulate plays whole tournaments against a running planner over
// HTTP: it registers a generated field, plans every round, reports random
// results and checks the pairings and standings it gets back.
package simulate

import "time"

// Config holds configuration for a simulated tournament.
type Config struct {
	BaseURL      string        // Base URL of the service
	Participants int           // Number of participants to register
	Affiliations int           // Number of distinct affiliations
	Judges       int           // Number of judges to register
	Rounds       int           // Number of rounds to play
	Workers      int           // Concurrent result submissions
	Timeout      time.Duration // HTTP request timeout
	Seed         int64         // Seed for the field and the results
	DrawRate     float64       // Probability that a board is drawn
	Verbose      bool          // Log every planned round
}

// Stats holds simulation statistics.
type Stats struct {
	ParticipantsRegistered int
	JudgesRegistered       int
	RoundsPlanned          int
	ByesGranted            int
	ResultsSubmitted       int
	ResultsAccepted        int
	ResultsDuplicate       int
	ResultsFailed          int
	Rematches              int
	Conflicts              int
	Unassigned             int
	StartTime              time.Time
	EndTime                time.Time
	Duration               time.Duration
}

// ackResponse mirrors the body of POST /results.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type participantRequest struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

type judgeRequest struct {
	Name                  string   `json:"name"`
	ForbiddenAffiliations []string `json:"forbidden_affiliations"`
}

type resultRequest struct {
	ResultID     string  `json:"result_id"`
	Round        int     `json:"round"`
	Participant1 string  `json:"participant1"`
	Participant2 string  `json:"participant2"`
	Score1       float64 `json:"score1"`
	Score2       float64 `json:"score2"`
	PlayedAt     string  `json:"played_at"`
}
