package standings

import (
	"testing"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/effort"
)

func entryOn(id string, date time.Time) effort.Entry {
	return effort.Entry{ID: id, MemberID: "m-1", Date: date, Status: effort.StatusApproved}
}

func TestSplitEntriesTwoDayDelay(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	entries := []effort.Entry{
		entryOn("e-07", time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC)),
		entryOn("e-08", time.Date(2024, time.June, 8, 0, 0, 0, 0, time.UTC)),
		entryOn("e-09", time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)),
		entryOn("e-10", today),
	}

	settled, pending := SplitEntries(entries, today, 2, false)

	wantSettled := map[string]bool{"e-07": true, "e-08": true}
	if len(settled) != 2 || len(pending) != 2 {
		t.Fatalf("split sizes: settled=%d pending=%d want 2/2", len(settled), len(pending))
	}
	for _, e := range settled {
		if !wantSettled[e.ID] {
			t.Fatalf("entry %s settled; cutoff 2024-06-08 should leave it pending", e.ID)
		}
	}
	for _, e := range pending {
		if wantSettled[e.ID] {
			t.Fatalf("entry %s pending; it is on or before the cutoff", e.ID)
		}
	}
}

func TestSplitEntriesPartitionIsExact(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	entries := make([]effort.Entry, 0, 14)
	for day := 1; day <= 14; day++ {
		entries = append(entries, entryOn("e", time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)))
	}

	settled, pending := SplitEntries(entries, today, 2, false)
	if len(settled)+len(pending) != len(entries) {
		t.Fatalf("partition lost records: %d + %d != %d", len(settled), len(pending), len(entries))
	}
	for _, s := range settled {
		for _, p := range pending {
			if s.Date.Equal(p.Date) {
				t.Fatalf("date %s is in both halves", s.Date)
			}
		}
	}
}

func TestSplitEntriesCompletedLeagueDisablesDelay(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	entries := []effort.Entry{entryOn("e-09", today.AddDate(0, 0, -1)), entryOn("e-10", today)}

	settled, pending := SplitEntries(entries, today, 2, true)
	if len(pending) != 0 {
		t.Fatalf("completed league must have no pending records, got %d", len(pending))
	}
	if len(settled) != len(entries) {
		t.Fatalf("completed league must settle everything: got=%d want=%d", len(settled), len(entries))
	}
}

func TestPendingDates(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)
	dates := PendingDates(today, 2)
	if len(dates) != 2 {
		t.Fatalf("pending window size: got=%d want=2", len(dates))
	}
	if !dates[0].Equal(time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first pending date: got=%s", dates[0])
	}
	if !dates[1].Equal(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("second pending date: got=%s", dates[1])
	}
}
