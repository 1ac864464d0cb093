package standings

import (
	"testing"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
)

func approvedSubmission(id, memberID, challengeID string, points float64, createdAt time.Time) challenge.Submission {
	return challenge.Submission{
		ID:            id,
		ChallengeID:   challengeID,
		MemberID:      memberID,
		Status:        challenge.SubmissionApproved,
		AwardedPoints: &points,
		CreatedAt:     createdAt,
	}
}

func TestDedupeSubmissionsHigherPointsWin(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	subs := []challenge.Submission{
		approvedSubmission("s-1", "m-1", "ch-1", 40, base),
		approvedSubmission("s-2", "m-1", "ch-1", 60, base.Add(-time.Hour)),
		approvedSubmission("s-3", "m-2", "ch-1", 10, base),
	}

	winners := DedupeSubmissions(subs)
	if len(winners) != 2 {
		t.Fatalf("winner count: got=%d want=2", len(winners))
	}

	byMember := map[string]challenge.Submission{}
	for _, w := range winners {
		byMember[w.MemberID] = w
	}
	if byMember["m-1"].ID != "s-2" {
		t.Fatalf("m-1 winner: got=%s want=s-2 (higher points beats later timestamp)", byMember["m-1"].ID)
	}
	if byMember["m-2"].ID != "s-3" {
		t.Fatalf("m-2 winner: got=%s want=s-3", byMember["m-2"].ID)
	}
}

func TestDedupeSubmissionsPointsTieLaterWins(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	subs := []challenge.Submission{
		approvedSubmission("s-1", "m-1", "ch-1", 50, base),
		approvedSubmission("s-2", "m-1", "ch-1", 50, base.Add(time.Minute)),
	}

	winners := DedupeSubmissions(subs)
	if len(winners) != 1 || winners[0].ID != "s-2" {
		t.Fatalf("tie on points must go to the later created_at, got %+v", winners)
	}

	// Fully degenerate tie: same points, same timestamp. The smaller id wins,
	// independent of input order.
	subs = []challenge.Submission{
		approvedSubmission("s-9", "m-1", "ch-1", 50, base),
		approvedSubmission("s-2", "m-1", "ch-1", 50, base),
	}
	winners = DedupeSubmissions(subs)
	if len(winners) != 1 || winners[0].ID != "s-2" {
		t.Fatalf("degenerate tie must resolve by id, got %+v", winners)
	}
}

func TestDedupeSubmissionsIdempotent(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	subs := []challenge.Submission{
		approvedSubmission("s-1", "m-1", "ch-1", 40, base),
		approvedSubmission("s-2", "m-1", "ch-1", 60, base),
		approvedSubmission("s-3", "m-1", "ch-2", 10, base),
	}

	once := DedupeSubmissions(subs)
	twice := DedupeSubmissions(once)
	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("dedupe not idempotent at %d: %s then %s", i, once[i].ID, twice[i].ID)
		}
	}

	// A lower-points duplicate never displaces the winner.
	withLoser := append(slicesClone(subs), approvedSubmission("s-4", "m-1", "ch-1", 5, base.Add(time.Hour)))
	winners := DedupeSubmissions(withLoser)
	for _, w := range winners {
		if w.MemberID == "m-1" && w.ChallengeID == "ch-1" && w.ID != "s-2" {
			t.Fatalf("lower-points duplicate changed the winner to %s", w.ID)
		}
	}
}

func TestDedupeEntriesPerMemberDate(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, time.June, 5, 8, 0, 0, 0, time.UTC)
	entries := []effort.Entry{
		{ID: "e-1", MemberID: "m-1", Date: day, RRValue: 3.5, Status: effort.StatusApproved, CreatedAt: created},
		{ID: "e-2", MemberID: "m-1", Date: day, RRValue: 4.0, Status: effort.StatusApproved, CreatedAt: created.Add(-time.Hour)},
		{ID: "e-3", MemberID: "m-1", Date: day.AddDate(0, 0, 1), RRValue: 1.0, Status: effort.StatusApproved, CreatedAt: created},
	}

	winners := DedupeEntries(entries)
	if len(winners) != 2 {
		t.Fatalf("winner count: got=%d want=2", len(winners))
	}
	for _, w := range winners {
		if w.Date.Equal(day) && w.ID != "e-2" {
			t.Fatalf("same-day winner: got=%s want=e-2", w.ID)
		}
	}
}

func slicesClone(subs []challenge.Submission) []challenge.Submission {
	out := make([]challenge.Submission, len(subs))
	copy(out, subs)
	return out
}
