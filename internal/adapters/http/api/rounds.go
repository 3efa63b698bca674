package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/swissjury/internal/domain/types"
)

// RoundDependencies plans and reads rounds.
type RoundDependencies interface {
	PlanRound(ctx context.Context) (types.Round, error)
	Round(ctx context.Context, n int) (types.Round, error)
}

// RoundsHandler handles round planning requests.
type RoundsHandler struct {
	deps RoundDependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps RoundDependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

// HandlePostRound handles POST /rounds: plan the next round.
func (h *RoundsHandler) HandlePostRound(w http.ResponseWriter, r *http.Request) {
	rd, err := h.deps.PlanRound(r.Context())
	if err != nil {
		writeServiceError(w, fmt.Errorf("api.post_round: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, rd)
}

// HandleGetRound handles GET /rounds/{round} requests.
func (h *RoundsHandler) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_round"
	n, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: round must be a positive integer", op, ErrBadRequest))
		return
	}
	rd, err := h.deps.Round(r.Context(), n)
	if err != nil {
		writeServiceError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, rd)
}
