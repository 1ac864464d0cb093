package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

func TestRunSweep_MarksOnlyExpiredLeagues(t *testing.T) {
	t.Parallel()

	expired := league.League{
		ID: "lg-expired", Name: "Spring League", Status: league.StatusActive,
		StartDate: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
	}
	running := league.League{
		ID: "lg-running", Name: "Summer League", Status: league.StatusActive,
		StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
	done := league.League{
		ID: "lg-done", Name: "Winter League", Status: league.StatusCompleted,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	}
	leagueRepo := newStubLeagueRepo(expired, running, done)

	service := NewSweepService(leagueRepo, nil, 0, logging.NewNop())
	service.now = func() time.Time {
		return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	}

	result, err := service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if result.Scanned != 3 || result.Completed != 1 || result.Skipped != 2 || result.Failed != 0 {
		t.Fatalf("unexpected sweep result: %+v", result)
	}

	got, _, err := leagueRepo.GetByID(context.Background(), "lg-expired")
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if got.Status != league.StatusCompleted {
		t.Fatalf("expired league must be completed, got %s", got.Status)
	}
	stillRunning, _, _ := leagueRepo.GetByID(context.Background(), "lg-running")
	if stillRunning.Status != league.StatusActive {
		t.Fatalf("running league must stay active, got %s", stillRunning.Status)
	}
}

func TestRunSweep_EndDateIsInclusive(t *testing.T) {
	t.Parallel()

	// The league ends today; it only expires tomorrow.
	endsToday := league.League{
		ID: "lg1", Name: "Summer League", Status: league.StatusActive,
		StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
	}
	leagueRepo := newStubLeagueRepo(endsToday)

	service := NewSweepService(leagueRepo, nil, 0, logging.NewNop())
	service.now = func() time.Time {
		return time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC)
	}

	result, err := service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if result.Completed != 0 || result.Skipped != 1 {
		t.Fatalf("league ending today must not be swept: %+v", result)
	}

	service.now = func() time.Time {
		return time.Date(2024, time.June, 11, 0, 30, 0, 0, time.UTC)
	}
	result, err = service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("league must be swept the day after its end date: %+v", result)
	}
}

func TestRunSweep_SecondPassIsIdempotent(t *testing.T) {
	t.Parallel()

	expired := league.League{
		ID: "lg1", Name: "Spring League", Status: league.StatusActive,
		StartDate: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
	}
	leagueRepo := newStubLeagueRepo(expired)

	service := NewSweepService(leagueRepo, nil, 0, logging.NewNop())
	service.now = func() time.Time {
		return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	}

	first, err := service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first.Completed != 1 {
		t.Fatalf("unexpected first sweep: %+v", first)
	}

	second, err := service.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.Completed != 0 || second.Skipped != 1 {
		t.Fatalf("second sweep must be a no-op: %+v", second)
	}
}

func TestScheduleNext(t *testing.T) {
	t.Parallel()

	publisher := &stubJobPublisher{}
	service := NewSweepService(newStubLeagueRepo(), publisher, time.Hour, logging.NewNop())
	service.now = func() time.Time {
		return time.Date(2024, time.June, 10, 12, 15, 0, 0, time.UTC)
	}

	if err := service.ScheduleNext(context.Background()); err != nil {
		t.Fatalf("schedule next: %v", err)
	}
	if len(publisher.enqueued) != 1 {
		t.Fatalf("expected one enqueued job, got %d", len(publisher.enqueued))
	}
	if !strings.HasPrefix(publisher.enqueued[0], "/v1/internal/jobs/league-completion-sweep|league-completion-sweep-") {
		t.Fatalf("unexpected job envelope: %s", publisher.enqueued[0])
	}

	// A retry inside the same interval slot reuses the deduplication id.
	if err := service.ScheduleNext(context.Background()); err != nil {
		t.Fatalf("schedule next again: %v", err)
	}
	if publisher.enqueued[0] != publisher.enqueued[1] {
		t.Fatalf("same slot must produce the same deduplication id: %v", publisher.enqueued)
	}

	// No publisher configured means scheduling quietly does nothing.
	unwired := NewSweepService(newStubLeagueRepo(), nil, time.Hour, logging.NewNop())
	if err := unwired.ScheduleNext(context.Background()); err != nil {
		t.Fatalf("schedule next without publisher: %v", err)
	}
}
