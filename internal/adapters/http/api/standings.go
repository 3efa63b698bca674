package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/swissjury/internal/domain/types"
)

// StandingsDependencies defines the interface for the standings table.
type StandingsDependencies interface {
	Standings(ctx context.Context) ([]types.Entry, error)
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleGetStandings handles GET /standings?limit=N requests. Without a
// limit the whole table is returned.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid limit", op, ErrBadRequest))
			return
		}
		limit = n
	}
	entries, err := h.deps.Standings(r.Context())
	if err != nil {
		writeServiceError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, entries)
}
