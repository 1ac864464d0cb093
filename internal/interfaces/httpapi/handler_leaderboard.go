package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/standings"
	"github.com/riskibarqy/effort-league/internal/usecase"
)

type rankedRowDTO struct {
	Rank   int     `json:"rank"`
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	AvgRR  float64 `json:"avg_rr,omitempty"`
}

type pendingWindowDTO struct {
	Dates []string       `json:"dates"`
	Teams []rankedRowDTO `json:"teams"`
}

type leaderboardStatsDTO struct {
	TotalTeams       int     `json:"total_teams"`
	TotalMembers     int     `json:"total_members"`
	SettledEntries   int     `json:"settled_entries"`
	PendingEntries   int     `json:"pending_entries"`
	ChallengePoints  float64 `json:"challenge_points"`
	SkippedAnomalies int     `json:"skipped_anomalies"`
}

type leaderboardDTO struct {
	StartDate            string              `json:"start_date"`
	EndDate              string              `json:"end_date"`
	Teams                []rankedRowDTO      `json:"teams"`
	Individuals          []rankedRowDTO      `json:"individuals"`
	SubTeams             []rankedRowDTO      `json:"sub_teams"`
	ChallengeTeams       []rankedRowDTO      `json:"challenge_teams"`
	ChallengeIndividuals []rankedRowDTO      `json:"challenge_individuals"`
	Pending              pendingWindowDTO    `json:"pending"`
	Stats                leaderboardStatsDTO `json:"stats"`
}

func rankedRowsToDTO(ctx context.Context, rows []standings.RankedRow) []rankedRowDTO {
	_ = ctx

	out := make([]rankedRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, rankedRowDTO{
			Rank:   row.Rank,
			ID:     row.ID,
			Name:   row.Name,
			Points: row.Points,
			AvgRR:  row.AvgRR,
		})
	}
	return out
}

func leaderboardToDTO(ctx context.Context, board usecase.Leaderboard) leaderboardDTO {
	dates := make([]string, 0, len(board.Pending.Dates))
	for _, date := range board.Pending.Dates {
		dates = append(dates, date.Format(time.DateOnly))
	}

	return leaderboardDTO{
		StartDate:            board.Range.Start.Format(time.DateOnly),
		EndDate:              board.Range.End.Format(time.DateOnly),
		Teams:                rankedRowsToDTO(ctx, board.Teams),
		Individuals:          rankedRowsToDTO(ctx, board.Individuals),
		SubTeams:             rankedRowsToDTO(ctx, board.SubTeams),
		ChallengeTeams:       rankedRowsToDTO(ctx, board.ChallengeTeams),
		ChallengeIndividuals: rankedRowsToDTO(ctx, board.ChallengeIndividuals),
		Pending: pendingWindowDTO{
			Dates: dates,
			Teams: rankedRowsToDTO(ctx, board.Pending.Teams),
		},
		Stats: leaderboardStatsDTO{
			TotalTeams:       board.Stats.TotalTeams,
			TotalMembers:     board.Stats.TotalMembers,
			SettledEntries:   board.Stats.SettledEntries,
			PendingEntries:   board.Stats.PendingEntries,
			ChallengePoints:  board.Stats.ChallengePoints,
			SkippedAnomalies: board.Stats.SkippedAnomalies,
		},
	}
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	query, err := parseLeaderboardQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	board, err := h.leaderboardService.GetLeaderboard(ctx, leagueID, query)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(ctx, board))
}

func parseLeaderboardQuery(r *http.Request) (usecase.LeaderboardQuery, error) {
	query := usecase.LeaderboardQuery{
		Timezone: strings.TrimSpace(r.URL.Query().Get("tz")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("start_date")); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return usecase.LeaderboardQuery{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", usecase.ErrInvalidInput)
		}
		query.StartDate = &parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("end_date")); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return usecase.LeaderboardQuery{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD", usecase.ErrInvalidInput)
		}
		query.EndDate = &parsed
	}

	return query, nil
}
