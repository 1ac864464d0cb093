package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
)

type EffortRepository struct {
	db *sqlx.DB
}

func NewEffortRepository(db *sqlx.DB) *EffortRepository {
	return &EffortRepository{db: db}
}

func (r *EffortRepository) ListByLeagueRange(ctx context.Context, leagueID string, from, to time.Time) ([]effort.Entry, error) {
	const query = `
SELECT *
FROM effort_entries
WHERE league_public_id = $1
  AND entry_date >= $2::date
  AND entry_date <= $3::date
  AND deleted_at IS NULL
ORDER BY entry_date, id`

	var rows []effortEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, from, to); err != nil {
		return nil, fmt.Errorf("select effort entries: %w", err)
	}

	out := make([]effort.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, effort.Entry{
			ID:        row.PublicID,
			LeagueID:  row.LeaguePublicID,
			MemberID:  row.MemberPublicID,
			Date:      row.EntryDate,
			Kind:      row.Kind,
			RRValue:   row.RRValue,
			Status:    effort.Status(row.Status),
			CreatedAt: row.CreatedAt,
		})
	}

	return out, nil
}
