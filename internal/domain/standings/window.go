package standings

import (
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/effort"
)

// DefaultDelayDays is the dispute window: records from the last two local days
// stay off the official boards so captains and governors can correct
// misattributed or fraudulent entries first.
const DefaultDelayDays = 2

// SplitEntries partitions entries into settled and pending. An entry is
// pending when its date is strictly after today-delayDays; a completed league
// has nothing left to dispute, so the delay is disabled and everything
// settles. The two halves always reconstruct the input exactly.
func SplitEntries(entries []effort.Entry, today time.Time, delayDays int, leagueCompleted bool) (settled, pending []effort.Entry) {
	if leagueCompleted || delayDays <= 0 {
		return slicesCopy(entries), nil
	}

	cutoff := dateOnly(today).AddDate(0, 0, -delayDays)
	settled = make([]effort.Entry, 0, len(entries))
	for _, entry := range entries {
		if dateOnly(entry.Date).After(cutoff) {
			pending = append(pending, entry)
		} else {
			settled = append(settled, entry)
		}
	}

	return settled, pending
}

// PendingDates lists the local dates covered by the provisional board, oldest
// first: today-delayDays+1 through today.
func PendingDates(today time.Time, delayDays int) []time.Time {
	if delayDays <= 0 {
		return nil
	}

	dates := make([]time.Time, 0, delayDays)
	day := dateOnly(today).AddDate(0, 0, -(delayDays - 1))
	for i := 0; i < delayDays; i++ {
		dates = append(dates, day)
		day = day.AddDate(0, 0, 1)
	}

	return dates
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func slicesCopy(entries []effort.Entry) []effort.Entry {
	out := make([]effort.Entry, len(entries))
	copy(out, entries)
	return out
}
