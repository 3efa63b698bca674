package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/okian/swissjury/internal/domain/dedupe"
	"github.com/okian/swissjury/internal/domain/model"
)

// ResultDependencies defines the interface for result ingestion.
type ResultDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, rec model.MatchRecord) bool
	LatestRound(ctx context.Context) int
}

// ResultsHandler handles match result submissions.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// resultRequest is the body of POST /results. A zero round means the latest
// planned round. played_at accepts any layout dateparse understands.
type resultRequest struct {
	ResultID     string  `json:"result_id"`
	Round        int     `json:"round"`
	Participant1 string  `json:"participant1"`
	Participant2 string  `json:"participant2"`
	Score1       float64 `json:"score1"`
	Score2       float64 `json:"score2"`
	Judge        string  `json:"judge"`
	PlayedAt     string  `json:"played_at"`
}

func (r resultRequest) record() (model.MatchRecord, error) {
	if strings.TrimSpace(r.ResultID) == "" {
		return model.MatchRecord{}, errors.New("missing result_id")
	}
	rec := model.MatchRecord{
		ResultID:     r.ResultID,
		Round:        r.Round,
		Participant1: strings.TrimSpace(r.Participant1),
		Participant2: strings.TrimSpace(r.Participant2),
		Score1:       r.Score1,
		Score2:       r.Score2,
		Judge:        strings.TrimSpace(r.Judge),
	}
	if r.PlayedAt != "" {
		t, err := dateparse.ParseAny(r.PlayedAt)
		if err != nil {
			return rec, fmt.Errorf("invalid played_at: %w", err)
		}
		rec.PlayedAt = t.UTC()
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// HandlePostResult handles POST /results requests.
func (h *ResultsHandler) HandlePostResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_result"
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	rec, err := req.record()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if rec.Round == 0 {
		rec.Round = h.deps.LatestRound(r.Context())
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), rec.ResultID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), rec); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), rec.ResultID)
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
