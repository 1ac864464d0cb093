package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

// JobPublisher schedules a delayed callback to an internal endpoint.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// SweepService persists a derived `completed` status for leagues whose end
// date has passed. Correctness never depends on it running: status derivation
// stays computed-on-read, and the write is guarded so an already-completed
// league is never touched again.
type SweepService struct {
	leagueRepo league.Repository
	publisher  JobPublisher
	interval   time.Duration
	maxWorkers int
	now        func() time.Time
	logger     *logging.Logger
}

const (
	defaultSweepWorkers = 4
	sweepJobPath        = "/v1/internal/jobs/league-completion-sweep"
)

func NewSweepService(leagueRepo league.Repository, publisher JobPublisher, interval time.Duration, logger *logging.Logger) *SweepService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SweepService{
		leagueRepo: leagueRepo,
		publisher:  publisher,
		interval:   interval,
		maxWorkers: defaultSweepWorkers,
		now:        time.Now,
		logger:     logger,
	}
}

type SweepResult struct {
	Scanned   int `json:"scanned"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RunSweep scans every league and marks the expired ones completed, fanning
// the guarded writes out over a worker pool.
func (s *SweepService) RunSweep(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.RunSweep")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list leagues: %w", err)
	}

	now := s.now()
	due := make([]league.League, 0, len(leagues))
	result := SweepResult{Scanned: len(leagues)}
	for _, lg := range leagues {
		if lg.IsCompleted() || lg.EndDate.IsZero() {
			result.Skipped++
			continue
		}
		endOfLeague := lg.EndDate.In(lg.Location())
		if dateOnly(now.In(lg.Location())).After(dateOnly(endOfLeague)) {
			due = append(due, lg)
		} else {
			result.Skipped++
		}
	}
	if len(due) == 0 {
		return result, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(due) {
		workerCount = len(due)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	var workers sync.WaitGroup
	for _, lg := range due {
		lg := lg
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			marked, err := s.leagueRepo.MarkCompleted(ctx, lg.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				s.logger.ErrorContext(ctx, "league completion write failed", "league_id", lg.ID, "error", err)
			case marked:
				result.Completed++
				s.logger.InfoContext(ctx, "league marked completed", "league_id", lg.ID)
			default:
				// Another sweep got here first; the guard held.
				result.Skipped++
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			result.Failed++
			mu.Unlock()
		}
	}
	workers.Wait()

	return result, nil
}

// ScheduleNext enqueues the next sweep callback when a publisher is
// configured. A deduplication id per interval slot keeps retries from
// stacking duplicate runs.
func (s *SweepService) ScheduleNext(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.ScheduleNext")
	defer span.End()

	if s.publisher == nil || s.interval <= 0 {
		return nil
	}

	slot := s.now().Add(s.interval).Truncate(s.interval).Unix()
	dedupeID := fmt.Sprintf("league-completion-sweep-%d", slot)
	if err := s.publisher.Enqueue(ctx, sweepJobPath, map[string]any{}, s.interval, dedupeID); err != nil {
		return fmt.Errorf("enqueue sweep job: %w", err)
	}

	return nil
}
