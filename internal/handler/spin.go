package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/spin"
)

// SpinHandler handles spin HTTP endpoints
type SpinHandler struct {
	service spin.Service
}

// NewSpinHandler creates a new spin handler
func NewSpinHandler(service spin.Service) *SpinHandler {
	return &SpinHandler{service: service}
}

// HandlePlay resolves one spin and settles it against the agent's pool
func (h *SpinHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req spin.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	result, err := h.service.Play(ctx, req)
	if err != nil {
		log.Error("Failed to process spin", "error", err, "agent_id", req.AgentID, "game_id", req.GameID)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleReplay re-resolves a settled round from its audit seed
func (h *SpinHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	roundID := chi.URLParam(r, "roundID")
	if roundID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
		return
	}

	result, err := h.service.Replay(ctx, roundID)
	if err != nil {
		log.Error("Failed to replay round", "error", err, "round_id", roundID)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
