// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/swissjury/internal/adapters/repository"
	"github.com/okian/swissjury/internal/domain/dedupe"
	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/internal/domain/round"
	"github.com/okian/swissjury/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a result for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, rec model.MatchRecord) bool
	// LatestRound is the round results default to when they carry none.
	LatestRound(ctx context.Context) int

	AddParticipant(ctx context.Context, p model.ParticipantRecord) error
	AddJudge(ctx context.Context, j model.JudgeDefinition) error

	PlanRound(ctx context.Context) (types.Round, error)
	Round(ctx context.Context, n int) (types.Round, error)
	Standings(ctx context.Context) ([]types.Entry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	resultsHandler      *ResultsHandler
	participantsHandler *ParticipantsHandler
	roundsHandler       *RoundsHandler
	standingsHandler    *StandingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		resultsHandler:      NewResultsHandler(deps),
		participantsHandler: NewParticipantsHandler(deps),
		roundsHandler:       NewRoundsHandler(deps),
		standingsHandler:    NewStandingsHandler(deps),
	}
}

// Handler returns the router serving every route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Post("/participants", MetricsMiddleware(s.participantsHandler.HandlePostParticipant, "participants"))
	r.Post("/judges", MetricsMiddleware(s.participantsHandler.HandlePostJudge, "judges"))
	r.Post("/results", MetricsMiddleware(s.resultsHandler.HandlePostResult, "results"))
	r.Post("/rounds", MetricsMiddleware(s.roundsHandler.HandlePostRound, "rounds"))
	r.Get("/rounds/{round}", MetricsMiddleware(s.roundsHandler.HandleGetRound, "round"))
	r.Get("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))

	return r
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps upstream sentinel errors to a status and code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidRecord),
		errors.Is(err, round.ErrInvalidInput),
		errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrEmptyJudgeRef):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrDuplicateJudge),
		errors.Is(err, repository.ErrRoundPlanned),
		errors.Is(err, round.ErrDuplicateJudge),
		errors.Is(err, pairing.ErrNoParticipants):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
