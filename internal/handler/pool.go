package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/pool"
)

// PoolHandler handles liquidity pool HTTP endpoints
type PoolHandler struct {
	service pool.Service
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(service pool.Service) *PoolHandler {
	return &PoolHandler{service: service}
}

// ManualTransferRequest is the request body for deposits and withdrawals
type ManualTransferRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// SetPhaseRequest is the request body for pinning a pool phase
type SetPhaseRequest struct {
	Phase           domain.PoolPhase `json:"phase"`
	DurationMinutes int              `json:"duration_minutes"`
}

// CheckLimitsRequest asks what odds the next spin would be granted
type CheckLimitsRequest struct {
	BetAmount      int64 `json:"bet_amount"`
	CreditsPerLine int64 `json:"credits_per_line"`
}

// HandleSnapshot returns the pool's reporting view including derived fields
func (h *PoolHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := chi.URLParam(r, "agentID")

	snapshot, err := h.service.Snapshot(ctx, agentID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to get pool snapshot", "error", err, "agent_id", agentID)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// HandleCheckLimits returns the effective win chance and multiplier cap the
// governor would grant the next spin, without settling anything
func (h *PoolHandler) HandleCheckLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := chi.URLParam(r, "agentID")

	var req CheckLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	limits, err := h.service.CheckLimits(ctx, agentID, req.BetAmount, req.CreditsPerLine)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to check limits", "error", err, "agent_id", agentID)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, limits)
}

// HandleDeposit credits the pool from the agent's operator account
func (h *PoolHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.manualTransfer(w, r, h.service.ManualDeposit)
}

// HandleWithdraw debits the pool toward the agent's operator account
func (h *PoolHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.manualTransfer(w, r, h.service.ManualWithdraw)
}

func (h *PoolHandler) manualTransfer(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, agentID string, amount int64, note string) (*domain.PoolSnapshot, error)) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	agentID := chi.URLParam(r, "agentID")

	var req ManualTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	snapshot, err := op(ctx, agentID, req.Amount, req.Note)
	if err != nil {
		log.Error("Failed to apply manual transfer", "error", err, "agent_id", agentID, "amount", req.Amount)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// HandleSetPhase pins the pool's phase, optionally with an expiry after
// which automatic threshold transitions resume
func (h *PoolHandler) HandleSetPhase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	agentID := chi.URLParam(r, "agentID")

	var req SetPhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if err := h.service.SetPhase(ctx, agentID, req.Phase, duration); err != nil {
		log.Error("Failed to set pool phase", "error", err, "agent_id", agentID, "phase", req.Phase)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Phase updated"})
}

// HandleLedger lists ledger entries for an agent, newest first
func (h *PoolHandler) HandleLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := chi.URLParam(r, "agentID")

	filter := domain.LedgerFilter{Limit: 100}
	q := r.URL.Query()

	if kind := q.Get("kind"); kind != "" {
		k := domain.LedgerEntryKind(kind)
		filter.Kind = &k
	}
	if since := q.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}
		filter.Since = &t
	}
	if until := q.Get("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}
		filter.Until = &t
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > 1000 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}
		filter.Limit = n
	}

	entries, err := h.service.Ledger(ctx, agentID, filter)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list ledger", "error", err, "agent_id", agentID)
		status, msg := mapServiceError(err)
		respondError(w, status, msg)
		return
	}

	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
