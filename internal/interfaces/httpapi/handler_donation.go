package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/usecase"
)

type donationDTO struct {
	ID         string  `json:"id"`
	LeagueID   string  `json:"league_id"`
	DonorID    string  `json:"donor_id"`
	ReceiverID string  `json:"receiver_id"`
	Days       int     `json:"days"`
	Status     string  `json:"status"`
	ProofRef   string  `json:"proof_ref,omitempty"`
	CreatedAt  string  `json:"created_at"`
	DecidedAt  *string `json:"decided_at,omitempty"`
	DecidedBy  string  `json:"decided_by,omitempty"`
}

func donationToDTO(ctx context.Context, req donation.Request) donationDTO {
	_ = ctx

	dto := donationDTO{
		ID:         req.ID,
		LeagueID:   req.LeagueID,
		DonorID:    req.DonorID,
		ReceiverID: req.ReceiverID,
		Days:       req.Days,
		Status:     string(req.Status),
		ProofRef:   req.ProofRef,
		CreatedAt:  req.CreatedAt.Format(time.RFC3339),
		DecidedBy:  req.DecidedBy,
	}
	if req.DecidedAt != nil {
		decidedAt := req.DecidedAt.Format(time.RFC3339)
		dto.DecidedAt = &decidedAt
	}
	return dto
}

type createDonationRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Days       int    `json:"days" validate:"required,gt=0"`
	ProofRef   string `json:"proof_ref" validate:"omitempty,max=500"`
}

func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateDonation")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createDonationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	created, err := h.donationService.CreateDonation(ctx, leagueID, principal, usecase.CreateDonationInput{
		ReceiverID: req.ReceiverID,
		Days:       req.Days,
		ProofRef:   req.ProofRef,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create donation failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, donationToDTO(ctx, created))
}

type donationActionRequest struct {
	Action string `json:"action" validate:"required"`
}

func (h *Handler) TransitionDonation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransitionDonation")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req donationActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	action, err := donation.ParseAction(req.Action)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	leagueID := r.PathValue("leagueID")
	donationID := r.PathValue("donationID")
	updated, err := h.donationService.TransitionDonation(ctx, leagueID, donationID, principal, action)
	if err != nil {
		h.logger.WarnContext(ctx, "transition donation failed",
			"league_id", leagueID,
			"donation_id", donationID,
			"action", req.Action,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, donationToDTO(ctx, updated))
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDonations")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	leagueID := r.PathValue("leagueID")
	items, err := h.donationService.ListDonations(ctx, leagueID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list donations failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]donationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, donationToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
