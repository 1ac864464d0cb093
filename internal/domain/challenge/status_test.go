package challenge

import (
	"testing"
	"time"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	start := datePtr(2024, time.June, 1)
	end := datePtr(2024, time.June, 20)

	cases := []struct {
		name   string
		stored Status
		start  *time.Time
		end    *time.Time
		now    time.Time
		want   Status
	}{
		{
			name:   "draft is preserved regardless of dates",
			stored: StatusDraft,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC),
			want:   StatusDraft,
		},
		{
			name:   "published is preserved past end date",
			stored: StatusPublished,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
			want:   StatusPublished,
		},
		{
			name:   "closed is preserved before start date",
			stored: StatusClosed,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			want:   StatusClosed,
		},
		{
			name:   "before start is scheduled",
			stored: StatusActive,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.May, 31, 23, 0, 0, 0, time.UTC),
			want:   StatusScheduled,
		},
		{
			name:   "start day itself is active",
			stored: StatusScheduled,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.June, 1, 0, 30, 0, 0, time.UTC),
			want:   StatusActive,
		},
		{
			name:   "end day itself is still active",
			stored: StatusActive,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.June, 20, 23, 59, 0, 0, time.UTC),
			want:   StatusActive,
		},
		{
			name:   "day after end is submission_closed",
			stored: StatusActive,
			start:  start,
			end:    end,
			now:    time.Date(2024, time.June, 21, 0, 1, 0, 0, time.UTC),
			want:   StatusSubmissionClosed,
		},
		{
			name:   "missing both dates falls back to stored",
			stored: StatusScheduled,
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:   StatusScheduled,
		},
		{
			name:   "missing start with passed end forces submission_closed",
			stored: StatusActive,
			end:    end,
			now:    time.Date(2024, time.June, 25, 0, 0, 0, 0, time.UTC),
			want:   StatusSubmissionClosed,
		},
		{
			name:   "missing start with future end falls back to stored",
			stored: StatusActive,
			end:    end,
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:   StatusActive,
		},
		{
			name:   "missing end falls back to stored",
			stored: StatusActive,
			start:  start,
			now:    time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
			want:   StatusActive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := DeriveStatus(tc.stored, tc.start, tc.end, tc.now)
			if got != tc.want {
				t.Fatalf("DeriveStatus: got=%s want=%s", got, tc.want)
			}
			if !got.IsValid() {
				t.Fatalf("DeriveStatus returned invalid status %q", got)
			}
		})
	}
}

func TestDeriveStatusLocalMidnight(t *testing.T) {
	t.Parallel()

	start := datePtr(2024, time.June, 1)
	end := datePtr(2024, time.June, 20)

	// 2024-06-21 01:00 in Jakarta is still 2024-06-20 in UTC; the comparison
	// must use the caller's wall-clock date, so the challenge is closed there.
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2024, time.June, 21, 1, 0, 0, 0, jakarta)

	if got := DeriveStatus(StatusActive, start, end, now); got != StatusSubmissionClosed {
		t.Fatalf("DeriveStatus in WIB: got=%s want=%s", got, StatusSubmissionClosed)
	}
	if got := DeriveStatus(StatusActive, start, end, now.UTC()); got != StatusActive {
		t.Fatalf("DeriveStatus in UTC: got=%s want=%s", got, StatusActive)
	}
}

func TestChallengeGates(t *testing.T) {
	t.Parallel()

	start := datePtr(2024, time.June, 1)
	end := datePtr(2024, time.June, 20)
	afterEnd := time.Date(2024, time.June, 25, 0, 0, 0, 0, time.UTC)
	during := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	base := Challenge{
		ID:          "ch-1",
		LeagueID:    "lg-1",
		Name:        "plank week",
		Type:        TypeTeam,
		TotalPoints: 100,
		Status:      StatusActive,
		StartDate:   start,
		EndDate:     end,
	}

	if err := base.CanReview(during); err == nil {
		t.Fatal("CanReview should fail while submissions are open")
	}
	if err := base.CanReview(afterEnd); err != nil {
		t.Fatalf("CanReview after close: %v", err)
	}

	published := base
	published.Status = StatusPublished
	if err := published.CanReview(afterEnd); err == nil {
		t.Fatal("CanReview should fail once published")
	}

	if err := base.CanPublish(afterEnd, 1); err == nil {
		t.Fatal("CanPublish should fail with pending submissions")
	}
	if err := base.CanPublish(afterEnd, 0); err != nil {
		t.Fatalf("CanPublish with no pending submissions: %v", err)
	}
	if err := base.CanPublish(during, 0); err == nil {
		t.Fatal("CanPublish should fail before submissions close")
	}
	if err := published.CanPublish(afterEnd, 0); err == nil {
		t.Fatal("CanPublish should fail when already published")
	}

	if err := base.CanClose(afterEnd); err == nil {
		t.Fatal("CanClose should fail before publish")
	}
	if err := published.CanClose(afterEnd); err != nil {
		t.Fatalf("CanClose from published: %v", err)
	}
	closed := base
	closed.Status = StatusClosed
	if err := closed.CanClose(afterEnd); err == nil {
		t.Fatal("CanClose should fail when already closed")
	}

	if err := base.CanAssignTeamScores(afterEnd); err != nil {
		t.Fatalf("CanAssignTeamScores before publish: %v", err)
	}
	if err := published.CanAssignTeamScores(afterEnd); err == nil {
		t.Fatal("CanAssignTeamScores should fail once published")
	}
}
