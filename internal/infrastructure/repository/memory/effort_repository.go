package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/effort"
)

type EffortRepository struct {
	mu      sync.RWMutex
	entries []effort.Entry
}

func NewEffortRepository(entries []effort.Entry) *EffortRepository {
	return &EffortRepository{entries: append([]effort.Entry(nil), entries...)}
}

func (r *EffortRepository) ListByLeagueRange(_ context.Context, leagueID string, from, to time.Time) ([]effort.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)

	out := make([]effort.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.LeagueID != leagueID {
			continue
		}
		day := truncateToDay(e.Date)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		out = append(out, e)
	}

	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
