package effort

import (
	"context"
	"time"
)

type Repository interface {
	// ListByLeagueRange returns all entries (any status) dated inside
	// [from, to], date-only inclusive on both ends.
	ListByLeagueRange(ctx context.Context, leagueID string, from, to time.Time) ([]Entry, error)
}
