package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/usecase"
)

type challengeDTO struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Type            string             `json:"type"`
	TotalPoints     float64            `json:"total_points"`
	Status          string             `json:"status"`
	EffectiveStatus string             `json:"effective_status"`
	StartDate       *string            `json:"start_date,omitempty"`
	EndDate         *string            `json:"end_date,omitempty"`
	PricingRef      string             `json:"pricing_ref,omitempty"`
	Stats           *challengeStatsDTO `json:"stats,omitempty"`
	OwnSubmission   *submissionDTO     `json:"own_submission,omitempty"`
}

type challengeStatsDTO struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type submissionDTO struct {
	ID            string   `json:"id"`
	ChallengeID   string   `json:"challenge_id"`
	MemberID      string   `json:"member_id"`
	TeamID        string   `json:"team_id,omitempty"`
	SubTeamID     string   `json:"sub_team_id,omitempty"`
	Status        string   `json:"status"`
	AwardedPoints *float64 `json:"awarded_points,omitempty"`
	CreatedAt     string   `json:"created_at"`
	ReviewedAt    *string  `json:"reviewed_at,omitempty"`
	ReviewedBy    string   `json:"reviewed_by,omitempty"`
}

type tournamentTableRowDTO struct {
	TeamID string  `json:"team_id"`
	Name   string  `json:"name"`
	Played int     `json:"played"`
	Won    int     `json:"won"`
	Draw   int     `json:"draw"`
	Lost   int     `json:"lost"`
	Points float64 `json:"points"`
}

type challengeLeaderboardDTO struct {
	ChallengeID     string                  `json:"challenge_id"`
	Type            string                  `json:"type"`
	EffectiveStatus string                  `json:"effective_status"`
	Rows            []rankedRowDTO          `json:"rows"`
	Table           []tournamentTableRowDTO `json:"table,omitempty"`
}

func submissionToDTO(ctx context.Context, sub challenge.Submission) submissionDTO {
	_ = ctx

	dto := submissionDTO{
		ID:            sub.ID,
		ChallengeID:   sub.ChallengeID,
		MemberID:      sub.MemberID,
		TeamID:        sub.TeamID,
		SubTeamID:     sub.SubTeamID,
		Status:        string(sub.Status),
		AwardedPoints: sub.AwardedPoints,
		CreatedAt:     sub.CreatedAt.Format(time.RFC3339),
		ReviewedBy:    sub.ReviewedBy,
	}
	if sub.ReviewedAt != nil {
		reviewedAt := sub.ReviewedAt.Format(time.RFC3339)
		dto.ReviewedAt = &reviewedAt
	}
	return dto
}

func challengeOverviewToDTO(ctx context.Context, overview usecase.ChallengeOverview) challengeDTO {
	ch := overview.Challenge
	dto := challengeDTO{
		ID:              ch.ID,
		Name:            ch.Name,
		Type:            string(ch.Type),
		TotalPoints:     ch.TotalPoints,
		Status:          string(ch.Status),
		EffectiveStatus: string(overview.EffectiveStatus),
		PricingRef:      ch.PricingRef,
	}
	if ch.StartDate != nil {
		start := ch.StartDate.Format(time.DateOnly)
		dto.StartDate = &start
	}
	if ch.EndDate != nil {
		end := ch.EndDate.Format(time.DateOnly)
		dto.EndDate = &end
	}
	if overview.Stats != nil {
		dto.Stats = &challengeStatsDTO{
			Pending:  overview.Stats.Pending,
			Approved: overview.Stats.Approved,
			Rejected: overview.Stats.Rejected,
		}
	}
	if overview.OwnSubmission != nil {
		own := submissionToDTO(ctx, *overview.OwnSubmission)
		dto.OwnSubmission = &own
	}
	return dto
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChallenges")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	leagueID := r.PathValue("leagueID")
	overviews, err := h.challengeService.ListChallenges(ctx, leagueID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list challenges failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]challengeDTO, 0, len(overviews))
	for _, overview := range overviews {
		items = append(items, challengeOverviewToDTO(ctx, overview))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetChallengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChallengeLeaderboard")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	challengeID := r.PathValue("challengeID")
	board, err := h.challengeService.GetChallengeLeaderboard(ctx, leagueID, challengeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get challenge leaderboard failed", "league_id", leagueID, "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	table := make([]tournamentTableRowDTO, 0, len(board.Table))
	for _, row := range board.Table {
		table = append(table, tournamentTableRowDTO{
			TeamID: row.TeamID,
			Name:   row.Name,
			Played: row.Played,
			Won:    row.Won,
			Draw:   row.Draw,
			Lost:   row.Lost,
			Points: row.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, challengeLeaderboardDTO{
		ChallengeID:     board.ChallengeID,
		Type:            string(board.Type),
		EffectiveStatus: string(board.EffectiveStatus),
		Rows:            rankedRowsToDTO(ctx, board.Rows),
		Table:           table,
	})
}

type reviewSubmissionRequest struct {
	Approve       bool     `json:"approve"`
	AwardedPoints *float64 `json:"awarded_points" validate:"omitempty,gte=0"`
}

func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReviewSubmission")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req reviewSubmissionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	challengeID := r.PathValue("challengeID")
	submissionID := r.PathValue("submissionID")
	reviewed, err := h.challengeService.ReviewSubmission(ctx, leagueID, challengeID, submissionID, principal, usecase.ReviewInput{
		Approve:       req.Approve,
		AwardedPoints: req.AwardedPoints,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "review submission failed",
			"league_id", leagueID,
			"challenge_id", challengeID,
			"submission_id", submissionID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(ctx, reviewed))
}

func (h *Handler) PublishChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishChallenge")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	leagueID := r.PathValue("leagueID")
	challengeID := r.PathValue("challengeID")
	published, err := h.challengeService.PublishChallenge(ctx, leagueID, challengeID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "publish challenge failed", "league_id", leagueID, "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeOverviewToDTO(ctx, usecase.ChallengeOverview{
		Challenge:       published,
		EffectiveStatus: published.Status,
	}))
}

func (h *Handler) CloseChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseChallenge")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	leagueID := r.PathValue("leagueID")
	challengeID := r.PathValue("challengeID")
	closed, err := h.challengeService.CloseChallenge(ctx, leagueID, challengeID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "close challenge failed", "league_id", leagueID, "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeOverviewToDTO(ctx, usecase.ChallengeOverview{
		Challenge:       closed,
		EffectiveStatus: closed.Status,
	}))
}

type assignTeamScoreRequest struct {
	TeamID string  `json:"team_id" validate:"required"`
	Score  float64 `json:"score" validate:"gte=0"`
}

func (h *Handler) AssignTeamScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignTeamScore")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req assignTeamScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	challengeID := r.PathValue("challengeID")
	if err := h.challengeService.AssignTeamScore(ctx, leagueID, challengeID, principal, usecase.TeamScoreInput{
		TeamID: req.TeamID,
		Score:  req.Score,
	}); err != nil {
		h.logger.WarnContext(ctx, "assign team score failed",
			"league_id", leagueID,
			"challenge_id", challengeID,
			"team_id", req.TeamID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
