package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	"github.com/riskibarqy/effort-league/internal/domain/standings"
	"github.com/riskibarqy/effort-league/internal/platform/cache"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

// LeaderboardService derives every board from current rows on each read.
// Nothing computed here is ever persisted; the optional cache is a short-TTL
// latency shortcut keyed on the exact inputs.
type LeaderboardService struct {
	leagueRepo    league.Repository
	rosterRepo    roster.Repository
	effortRepo    effort.Repository
	challengeRepo challenge.Repository
	delayDays     int
	now           func() time.Time
	store         *cache.Store
	logger        *logging.Logger
}

func NewLeaderboardService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	effortRepo effort.Repository,
	challengeRepo challenge.Repository,
	delayDays int,
	store *cache.Store,
	logger *logging.Logger,
) *LeaderboardService {
	if delayDays < 0 {
		delayDays = standings.DefaultDelayDays
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		leagueRepo:    leagueRepo,
		rosterRepo:    rosterRepo,
		effortRepo:    effortRepo,
		challengeRepo: challengeRepo,
		delayDays:     delayDays,
		now:           time.Now,
		store:         store,
		logger:        logger,
	}
}

// LeaderboardQuery narrows a leaderboard read. Zero dates default to the
// league's own range; Timezone (IANA name) fixes what "today" means for the
// visibility cutoff so each user's board rolls over at their local midnight.
type LeaderboardQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Timezone  string
}

type PendingWindow struct {
	Dates []time.Time
	Teams []standings.RankedRow
}

type LeaderboardStats struct {
	TotalTeams       int
	TotalMembers     int
	SettledEntries   int
	PendingEntries   int
	ChallengePoints  float64
	SkippedAnomalies int
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

type Leaderboard struct {
	Teams                []standings.RankedRow
	Individuals          []standings.RankedRow
	SubTeams             []standings.RankedRow
	ChallengeTeams       []standings.RankedRow
	ChallengeIndividuals []standings.RankedRow
	Pending              PendingWindow
	Stats                LeaderboardStats
	Range                DateRange
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, leagueID string, query LeaderboardQuery) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return Leaderboard{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return Leaderboard{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	loc := lg.Location()
	if tz := strings.TrimSpace(query.Timezone); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return Leaderboard{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, tz)
		}
		loc = parsed
	}
	today := s.now().In(loc)

	from, to := lg.StartDate, lg.EndDate
	if query.StartDate != nil {
		from = *query.StartDate
	}
	if query.EndDate != nil {
		to = *query.EndDate
	}
	if to.Before(from) {
		return Leaderboard{}, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	if s.store == nil {
		return s.compute(ctx, lg, from, to, today)
	}

	key := fmt.Sprintf("leaderboard:%s:%s:%s:%s", lg.ID, from.Format("2006-01-02"), to.Format("2006-01-02"), today.Format("2006-01-02"))
	v, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.compute(ctx, lg, from, to, today)
	})
	if err != nil {
		return Leaderboard{}, err
	}
	board, _ := v.(Leaderboard)
	return board, nil
}

// compute runs the full pipeline: load -> dedupe -> window split ->
// aggregate -> rank. Loads share one roster snapshot so the whole response is
// internally consistent even if membership changes mid-request.
func (s *LeaderboardService) compute(ctx context.Context, lg league.League, from, to, today time.Time) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.compute")
	defer span.End()

	var (
		ros         roster.Snapshot
		entries     []effort.Entry
		challenges  []challenge.Challenge
		submissions []challenge.Submission
		bonuses     []challenge.TeamBonus
	)

	loads := pool.New().WithContext(ctx).WithCancelOnError()
	loads.Go(func(ctx context.Context) error {
		var err error
		ros, err = s.rosterRepo.Snapshot(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("snapshot roster: %w", err)
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		var err error
		entries, err = s.effortRepo.ListByLeagueRange(ctx, lg.ID, from, to)
		if err != nil {
			return fmt.Errorf("list effort entries: %w", err)
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		var err error
		challenges, err = s.challengeRepo.ListByLeague(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list challenges: %w", err)
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		var err error
		submissions, err = s.challengeRepo.ListSubmissionsByLeague(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list submissions: %w", err)
		}
		return nil
	})
	loads.Go(func(ctx context.Context) error {
		var err error
		bonuses, err = s.challengeRepo.ListTeamBonuses(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list team bonuses: %w", err)
		}
		return nil
	})
	if err := loads.Wait(); err != nil {
		return Leaderboard{}, err
	}

	// Published challenges contribute computed points; closed ones already
	// live in the legacy bonus table and must not be counted twice.
	scorable := make([]challenge.Challenge, 0, len(challenges))
	scorableIDs := make(map[string]bool, len(challenges))
	for _, ch := range challenges {
		if ch.EffectiveStatus(today) == challenge.StatusPublished {
			scorable = append(scorable, ch)
			scorableIDs[ch.ID] = true
		}
	}

	scores, matches, err := s.loadTournamentTables(ctx, scorable)
	if err != nil {
		return Leaderboard{}, err
	}

	approvedEntries := make([]effort.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsApproved() {
			approvedEntries = append(approvedEntries, entry)
		}
	}
	counted := standings.DedupeEntries(approvedEntries)
	settled, pending := standings.SplitEntries(counted, today, s.delayDays, lg.IsCompleted())

	approvedSubs := make([]challenge.Submission, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Status != challenge.SubmissionApproved || !scorableIDs[sub.ChallengeID] {
			continue
		}
		// Submissions sit out the same dispute window as entries, keyed on
		// their creation date.
		if !lg.IsCompleted() && s.delayDays > 0 {
			cutoff := dateOnly(today).AddDate(0, 0, -s.delayDays)
			if dateOnly(sub.CreatedAt).After(cutoff) {
				continue
			}
		}
		approvedSubs = append(approvedSubs, sub)
	}
	winners := standings.DedupeSubmissions(approvedSubs)

	activity := standings.AggregateActivity(settled, ros)
	challengeTotals := standings.AggregateChallengePoints(standings.ChallengeInput{
		Challenges:  scorable,
		Submissions: winners,
		TeamScores:  scores,
		Matches:     matches,
	}, ros)
	legacy := standings.SumTeamBonuses(bonuses)

	anomalies := activity.Anomalies
	anomalies = mergeAnomalies(anomalies, challengeTotals.Anomalies)
	if anomalies.Total() > 0 {
		s.logger.WarnContext(ctx, "leaderboard aggregation skipped bad rows",
			"league_id", lg.ID,
			"non_positive_points", anomalies.NonPositivePoints,
			"missing_team", anomalies.MissingTeam,
			"missing_sub_team", anomalies.MissingSubTeam,
			"unknown_challenge", anomalies.UnknownChallenge,
		)
	}

	board := Leaderboard{
		Range: DateRange{Start: dateOnly(from), End: dateOnly(to)},
	}

	teamRows := make([]standings.Row, 0, len(ros.Teams))
	challengeTeamRows := make([]standings.Row, 0, len(ros.Teams))
	totalChallengePoints := 0.0
	for _, team := range ros.Teams {
		bonus := challengeTotals.TeamPoints[team.ID] + legacy[team.ID]
		totalChallengePoints += bonus
		avgRR := 0.0
		if n := activity.TeamEntries[team.ID]; n > 0 {
			avgRR = activity.TeamRRSum[team.ID] / float64(n)
		}
		teamRows = append(teamRows, standings.Row{
			ID:     team.ID,
			Name:   team.Name,
			Points: activity.TeamPoints[team.ID] + bonus,
			AvgRR:  avgRR,
		})
		challengeTeamRows = append(challengeTeamRows, standings.Row{
			ID:     team.ID,
			Name:   team.Name,
			Points: bonus,
		})
	}
	board.Teams = standings.Rank(teamRows)
	board.ChallengeTeams = standings.RankNonZero(challengeTeamRows)

	memberRows := make([]standings.Row, 0, len(ros.Members))
	challengeMemberRows := make([]standings.Row, 0, len(ros.Members))
	for _, member := range ros.Members {
		avgRR := 0.0
		if n := activity.MemberPoints[member.ID]; n > 0 {
			avgRR = activity.MemberRRSum[member.ID] / n
		}
		memberRows = append(memberRows, standings.Row{
			ID:     member.ID,
			Name:   member.Name,
			Points: activity.MemberPoints[member.ID],
			AvgRR:  avgRR,
		})
		challengeMemberRows = append(challengeMemberRows, standings.Row{
			ID:     member.ID,
			Name:   member.Name,
			Points: challengeTotals.MemberPoints[member.ID],
		})
	}
	board.Individuals = standings.Rank(memberRows)
	board.ChallengeIndividuals = standings.RankNonZero(challengeMemberRows)

	subTeamRows := make([]standings.Row, 0, len(ros.SubTeams))
	for _, subTeam := range ros.SubTeams {
		subTeamRows = append(subTeamRows, standings.Row{
			ID:     subTeam.ID,
			Name:   subTeam.Name,
			Points: challengeTotals.SubTeamPoints[subTeam.ID],
		})
	}
	board.SubTeams = standings.RankNonZero(subTeamRows)

	board.Pending = s.pendingBoard(pending, ros, today, lg.IsCompleted())
	board.Stats = LeaderboardStats{
		TotalTeams:       len(ros.Teams),
		TotalMembers:     len(ros.Members),
		SettledEntries:   len(settled),
		PendingEntries:   len(pending),
		ChallengePoints:  totalChallengePoints,
		SkippedAnomalies: anomalies.Total(),
	}

	return board, nil
}

// pendingBoard is the provisional preview of the dispute window. It reuses
// the same raw pool but is never merged into the settled totals.
func (s *LeaderboardService) pendingBoard(pending []effort.Entry, ros roster.Snapshot, today time.Time, completed bool) PendingWindow {
	if completed || s.delayDays <= 0 {
		return PendingWindow{}
	}

	activity := standings.AggregateActivity(pending, ros)
	rows := make([]standings.Row, 0, len(ros.Teams))
	for _, team := range ros.Teams {
		avgRR := 0.0
		if n := activity.TeamEntries[team.ID]; n > 0 {
			avgRR = activity.TeamRRSum[team.ID] / float64(n)
		}
		rows = append(rows, standings.Row{
			ID:     team.ID,
			Name:   team.Name,
			Points: activity.TeamPoints[team.ID],
			AvgRR:  avgRR,
		})
	}

	return PendingWindow{
		Dates: standings.PendingDates(today, s.delayDays),
		Teams: standings.Rank(rows),
	}
}

func (s *LeaderboardService) loadTournamentTables(ctx context.Context, challenges []challenge.Challenge) (map[string][]challenge.TeamScore, map[string][]challenge.Match, error) {
	scores := make(map[string][]challenge.TeamScore)
	matches := make(map[string][]challenge.Match)

	for _, ch := range challenges {
		if ch.Type != challenge.TypeTournament {
			continue
		}
		chScores, err := s.challengeRepo.ListTeamScores(ctx, ch.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("list team scores for challenge %s: %w", ch.ID, err)
		}
		chMatches, err := s.challengeRepo.ListMatches(ctx, ch.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("list matches for challenge %s: %w", ch.ID, err)
		}
		scores[ch.ID] = chScores
		matches[ch.ID] = chMatches
	}

	return scores, matches, nil
}

func mergeAnomalies(a, b standings.Anomalies) standings.Anomalies {
	a.NonPositivePoints += b.NonPositivePoints
	a.MissingTeam += b.MissingTeam
	a.MissingSubTeam += b.MissingSubTeam
	a.UnknownChallenge += b.UnknownChallenge
	return a
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
