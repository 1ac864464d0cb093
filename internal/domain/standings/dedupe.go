package standings

import (
	"cmp"
	"slices"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
)

// dedupeSortKey orders duplicate candidates so the first record per key is the
// winner: higher points first, then later created_at, then smaller id. The id
// leg makes the order total, so the winner never depends on data-source order.
type dedupeSortKey struct {
	key       string
	points    float64
	createdAt time.Time
	id        string
}

func pickWinners[T any](items []T, describe func(T) dedupeSortKey) []T {
	if len(items) <= 1 {
		return slices.Clone(items)
	}

	idx := make([]int, len(items))
	keys := make([]dedupeSortKey, len(items))
	for i, item := range items {
		idx[i] = i
		keys[i] = describe(item)
	}

	slices.SortFunc(idx, func(a, b int) int {
		ka, kb := keys[a], keys[b]
		if c := cmp.Compare(ka.key, kb.key); c != 0 {
			return c
		}
		if c := cmp.Compare(kb.points, ka.points); c != 0 {
			return c
		}
		if !ka.createdAt.Equal(kb.createdAt) {
			if ka.createdAt.After(kb.createdAt) {
				return -1
			}
			return 1
		}
		return cmp.Compare(ka.id, kb.id)
	})

	out := make([]T, 0, len(items))
	lastKey := ""
	for i, pos := range idx {
		if i > 0 && keys[pos].key == lastKey {
			continue
		}
		lastKey = keys[pos].key
		out = append(out, items[pos])
	}

	return out
}

// DedupeEntries collapses effort entries to one counted record per
// (member, date). The effort magnitude stands in for points when ranking
// duplicates, since every counted entry is worth the same single activity
// point.
func DedupeEntries(entries []effort.Entry) []effort.Entry {
	return pickWinners(entries, func(e effort.Entry) dedupeSortKey {
		return dedupeSortKey{
			key:       e.MemberID + "|" + e.Date.Format("2006-01-02"),
			points:    e.RRValue,
			createdAt: e.CreatedAt,
			id:        e.ID,
		}
	})
}

// DedupeSubmissions collapses challenge submissions to one winner per
// (member, challenge).
func DedupeSubmissions(subs []challenge.Submission) []challenge.Submission {
	return pickWinners(subs, func(s challenge.Submission) dedupeSortKey {
		return dedupeSortKey{
			key:       s.MemberID + "|" + s.ChallengeID,
			points:    s.Points(),
			createdAt: s.CreatedAt,
			id:        s.ID,
		}
	})
}
