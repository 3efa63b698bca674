package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/swissjury/internal/domain/model"
)

// RosterDependencies registers participants and judges.
type RosterDependencies interface {
	AddParticipant(ctx context.Context, p model.ParticipantRecord) error
	AddJudge(ctx context.Context, j model.JudgeDefinition) error
}

// ParticipantsHandler handles roster and judge pool registration.
type ParticipantsHandler struct {
	deps RosterDependencies
}

// NewParticipantsHandler creates a new participants handler.
func NewParticipantsHandler(deps RosterDependencies) *ParticipantsHandler {
	return &ParticipantsHandler{deps: deps}
}

type participantRequest struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

type judgeRequest struct {
	Name                  string   `json:"name"`
	ForbiddenAffiliations []string `json:"forbidden_affiliations"`
	ForbiddenParticipants []string `json:"forbidden_participants"`
	Assigned              int      `json:"assigned"`
}

// HandlePostParticipant handles POST /participants requests.
func (h *ParticipantsHandler) HandlePostParticipant(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_participant"
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	p := model.ParticipantRecord{
		Name:        strings.TrimSpace(req.Name),
		Affiliation: strings.TrimSpace(req.Affiliation),
	}
	if err := h.deps.AddParticipant(r.Context(), p); err != nil {
		writeServiceError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusCreated, participantRequest{Name: p.Name, Affiliation: p.Affiliation})
}

// HandlePostJudge handles POST /judges requests.
func (h *ParticipantsHandler) HandlePostJudge(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_judge"
	var req judgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if req.Assigned < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: negative assigned", op, ErrBadRequest))
		return
	}
	j := model.JudgeDefinition{
		Name:                  strings.TrimSpace(req.Name),
		ForbiddenAffiliations: req.ForbiddenAffiliations,
		ForbiddenParticipants: req.ForbiddenParticipants,
		Assigned:              req.Assigned,
	}
	if err := h.deps.AddJudge(r.Context(), j); err != nil {
		writeServiceError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	req.Name = j.Name
	writeJSON(w, http.StatusCreated, req)
}
