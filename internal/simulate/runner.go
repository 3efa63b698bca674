package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/swissjury/internal/domain/types"
	"github.com/okian/swissjury/pkg/logger"
)

// Run plays a complete tournament against the service at cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("simulate")

	log.Info(ctx, "starting tournament simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("participants", cfg.Participants),
		logger.Int("judges", cfg.Judges),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // simulated results, not security sensitive

	// Step 1: Check service health
	if err := client.get(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Register the field and the judges
	field := newField(rng, cfg.Participants, cfg.Affiliations)
	judges := newJudges(rng, cfg.Judges, cfg.Affiliations)
	if err := register(ctx, client, field, judges, stats); err != nil {
		return stats, fmt.Errorf("registration failed: %w", err)
	}

	// Step 3: Play the rounds
	v := newVerifier(field, judges)
	for r := 1; r <= cfg.Rounds; r++ {
		var rd types.Round
		if _, err := client.post(ctx, "/rounds", nil, &rd); err != nil {
			return stats, fmt.Errorf("plan round %d: %w", r, err)
		}
		if err := v.checkRound(r, rd); err != nil {
			return stats, err
		}
		stats.RoundsPlanned++
		stats.Rematches += rd.Rematches
		stats.Conflicts += rd.Conflicts
		stats.Unassigned += rd.Unassigned
		if rd.Bye != nil {
			stats.ByesGranted++
		}
		if cfg.Verbose {
			log.Info(ctx, "round planned",
				logger.Int("round", rd.Round),
				logger.String("strategy", rd.Strategy),
				logger.Float64("cost", rd.Cost),
				logger.Int("rematches", rd.Rematches),
				logger.Int("conflicts", rd.Conflicts))
		}

		results := play(rng, v.players, rd, cfg.DrawRate)
		if err := submitResults(ctx, client, cfg.Workers, results, stats); err != nil {
			return stats, fmt.Errorf("submit round %d: %w", r, err)
		}
	}

	// Step 4: Check the final table
	var table []types.Entry
	if err := client.get(ctx, "/standings", &table); err != nil {
		return stats, fmt.Errorf("standings retrieval failed: %w", err)
	}
	if err := v.checkStandings(table); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats, table)
	return stats, nil
}

func register(ctx context.Context, client *httpClient, field []player, judges []judge, stats *Stats) error {
	for _, p := range field {
		if _, err := client.post(ctx, "/participants", participantRequest{Name: p.Name, Affiliation: p.Affiliation}, nil); err != nil {
			return err
		}
		stats.ParticipantsRegistered++
	}
	for _, j := range judges {
		if _, err := client.post(ctx, "/judges", judgeRequest{Name: j.Name, ForbiddenAffiliations: j.Forbidden}, nil); err != nil {
			return err
		}
		stats.JudgesRegistered++
	}
	return nil
}

// play draws a result for every board. The bye always scores a win.
func play(rng *rand.Rand, players map[string]player, rd types.Round, drawRate float64) []resultRequest {
	playedAt := time.Now().UTC().Format(time.RFC3339)
	out := make([]resultRequest, 0, len(rd.Matches)+1)
	for _, m := range rd.Matches {
		s1, s2 := outcome(rng, players[m.Participant1], players[m.Participant2], drawRate)
		out = append(out, resultRequest{
			ResultID:     m.ID,
			Round:        rd.Round,
			Participant1: m.Participant1,
			Participant2: m.Participant2,
			Score1:       s1,
			Score2:       s2,
			PlayedAt:     playedAt,
		})
	}
	if rd.Bye != nil {
		out = append(out, resultRequest{
			ResultID:     "bye-" + strconv.Itoa(rd.Round),
			Round:        rd.Round,
			Participant1: rd.Bye.Participant1,
			Participant2: rd.Bye.Participant2,
			Score1:       1,
			PlayedAt:     playedAt,
		})
	}
	return out
}

// submitResults posts every result concurrently, then resends the first one
// to confirm the service recognizes it as a duplicate.
func submitResults(ctx context.Context, client *httpClient, workers int, results []resultRequest, stats *Stats) error {
	if len(results) == 0 {
		return nil
	}
	var accepted, failed int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, res := range results {
		g.Go(func() error {
			var ack ackResponse
			status, err := client.post(gctx, "/results", res, &ack)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				return err
			}
			if status == http.StatusAccepted {
				atomic.AddInt64(&accepted, 1)
			}
			return nil
		})
	}
	err := g.Wait()

	stats.ResultsSubmitted += len(results)
	stats.ResultsAccepted += int(accepted)
	stats.ResultsFailed += int(failed)
	if err != nil {
		return err
	}

	var ack ackResponse
	status, err := client.post(ctx, "/results", results[0], &ack)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !ack.Duplicate {
		return fmt.Errorf("%w: resubmitted result %s answered %d", ErrUnexpectedStatus, results[0].ResultID, status)
	}
	stats.ResultsDuplicate++
	return nil
}

// displayFinalStats logs the final statistics and the podium.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats, table []types.Entry) {
	log.Info(ctx, "final statistics",
		logger.Int("participants", stats.ParticipantsRegistered),
		logger.Int("judges", stats.JudgesRegistered),
		logger.Int("rounds", stats.RoundsPlanned),
		logger.Int("byes", stats.ByesGranted),
		logger.Int("resultsSubmitted", stats.ResultsSubmitted),
		logger.Int("resultsAccepted", stats.ResultsAccepted),
		logger.Int("resultsDuplicate", stats.ResultsDuplicate),
		logger.Int("resultsFailed", stats.ResultsFailed),
		logger.Int("rematches", stats.Rematches),
		logger.Int("conflicts", stats.Conflicts),
		logger.Int("unassigned", stats.Unassigned),
		logger.String("duration", stats.Duration.String()))

	for _, e := range table {
		if e.Rank > 3 {
			break
		}
		log.Info(ctx, "podium",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Float64("score", e.Score),
			logger.Float64("buchholz", e.Buchholz))
	}
}
