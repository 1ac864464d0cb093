package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	qb "github.com/riskibarqy/effort-league/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) MarkCompleted(ctx context.Context, leagueID string) (bool, error) {
	// The status guard lives in the WHERE clause so a sweep retry or a
	// concurrent sweep run flips a league at most once.
	const query = `
UPDATE leagues
SET status = $1, updated_at = NOW()
WHERE public_id = $2
  AND status = $3
  AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, string(league.StatusCompleted), leagueID, string(league.StatusActive))
	if err != nil {
		return false, fmt.Errorf("mark league completed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark league completed rows affected: %w", err)
	}

	return affected > 0, nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:          row.PublicID,
		Name:        row.Name,
		Status:      league.Status(row.Status),
		StartDate:   row.StartDate,
		EndDate:     row.EndDate,
		Timezone:    row.Timezone,
		HostID:      row.HostUserID,
		GovernorIDs: append([]string(nil), row.GovernorIDs...),
	}
}
