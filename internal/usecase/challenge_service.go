package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	"github.com/riskibarqy/effort-league/internal/domain/standings"
	"github.com/riskibarqy/effort-league/internal/domain/user"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

type ChallengeService struct {
	leagueRepo    league.Repository
	rosterRepo    roster.Repository
	challengeRepo challenge.Repository
	roles         user.RoleResolver
	now           func() time.Time
	logger        *logging.Logger
}

func NewChallengeService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	challengeRepo challenge.Repository,
	roles user.RoleResolver,
	logger *logging.Logger,
) *ChallengeService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ChallengeService{
		leagueRepo:    leagueRepo,
		rosterRepo:    rosterRepo,
		challengeRepo: challengeRepo,
		roles:         roles,
		now:           time.Now,
		logger:        logger,
	}
}

// ChallengeOverview is one challenge as seen by a caller: the effective
// status in force right now, review counters for privileged roles, and the
// caller's own submission if any.
type ChallengeOverview struct {
	Challenge       challenge.Challenge
	EffectiveStatus challenge.Status
	Stats           *challenge.SubmissionStats
	OwnSubmission   *challenge.Submission
}

func (s *ChallengeService) ListChallenges(ctx context.Context, leagueID string, principal user.Principal) ([]ChallengeOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.ListChallenges")
	defer span.End()

	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	membership, err := s.roles.Resolve(ctx, lg.ID, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	challenges, err := s.challengeRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	submissions, err := s.challengeRepo.ListSubmissionsByLeague(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	statsByChallenge := make(map[string]challenge.SubmissionStats)
	ownByChallenge := make(map[string]challenge.Submission)
	for _, sub := range submissions {
		stats := statsByChallenge[sub.ChallengeID]
		switch sub.Status {
		case challenge.SubmissionPending:
			stats.Pending++
		case challenge.SubmissionApproved:
			stats.Approved++
		case challenge.SubmissionRejected:
			stats.Rejected++
		}
		statsByChallenge[sub.ChallengeID] = stats

		if sub.MemberID == principal.UserID {
			ownByChallenge[sub.ChallengeID] = sub
		}
	}

	now := s.now()
	out := make([]ChallengeOverview, 0, len(challenges))
	for _, ch := range challenges {
		overview := ChallengeOverview{
			Challenge:       ch,
			EffectiveStatus: ch.EffectiveStatus(now),
		}
		if membership.AtLeastGovernor() {
			stats := statsByChallenge[ch.ID]
			overview.Stats = &stats
		}
		if own, ok := ownByChallenge[ch.ID]; ok {
			ownCopy := own
			overview.OwnSubmission = &ownCopy
		}
		out = append(out, overview)
	}

	return out, nil
}

// ChallengeLeaderboard is the type-specific board for a single challenge.
type ChallengeLeaderboard struct {
	ChallengeID     string
	Type            challenge.Type
	EffectiveStatus challenge.Status
	Rows            []standings.RankedRow
	Table           []TournamentTableRow
}

// TournamentTableRow is one line of a tournament match table.
type TournamentTableRow struct {
	TeamID string
	Name   string
	Played int
	Won    int
	Draw   int
	Lost   int
	Points float64
}

func (s *ChallengeService) GetChallengeLeaderboard(ctx context.Context, leagueID, challengeID string) (ChallengeLeaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.GetChallengeLeaderboard")
	defer span.End()

	ch, ros, err := s.getChallengeWithRoster(ctx, leagueID, challengeID)
	if err != nil {
		return ChallengeLeaderboard{}, err
	}

	board := ChallengeLeaderboard{
		ChallengeID:     ch.ID,
		Type:            ch.Type,
		EffectiveStatus: ch.EffectiveStatus(s.now()),
	}

	submissions, err := s.challengeRepo.ListSubmissions(ctx, ch.ID)
	if err != nil {
		return ChallengeLeaderboard{}, fmt.Errorf("list submissions: %w", err)
	}
	approved := make([]challenge.Submission, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Status == challenge.SubmissionApproved {
			approved = append(approved, sub)
		}
	}
	winners := standings.DedupeSubmissions(approved)

	switch ch.Type {
	case challenge.TypeIndividual:
		rows := make([]standings.Row, 0, len(winners))
		for _, sub := range winners {
			name := sub.MemberID
			if member, ok := ros.Member(sub.MemberID); ok && member.Name != "" {
				name = member.Name
			}
			rows = append(rows, standings.Row{ID: sub.MemberID, Name: name, Points: sub.Points()})
		}
		board.Rows = standings.RankNonZero(rows)

	case challenge.TypeTeam:
		scores, err := s.challengeRepo.ListTeamScores(ctx, ch.ID)
		if err != nil {
			return ChallengeLeaderboard{}, fmt.Errorf("list team scores: %w", err)
		}
		totals := make(map[string]float64)
		if len(scores) > 0 {
			// Manually assigned team scores replace submission-derived totals.
			for _, score := range scores {
				totals[score.TeamID] += score.Score
			}
		} else {
			for _, sub := range winners {
				if sub.TeamID == "" {
					continue
				}
				totals[sub.TeamID] += sub.Points()
			}
		}
		board.Rows = standings.RankNonZero(teamRowsFromTotals(totals, ros))

	case challenge.TypeSubTeam:
		totals := make(map[string]float64)
		for _, sub := range winners {
			if sub.SubTeamID == "" {
				continue
			}
			totals[sub.SubTeamID] += sub.Points()
		}
		rows := make([]standings.Row, 0, len(totals))
		for subTeamID, points := range totals {
			name := subTeamID
			if subTeam, ok := ros.SubTeam(subTeamID); ok && subTeam.Name != "" {
				name = subTeam.Name
			}
			rows = append(rows, standings.Row{ID: subTeamID, Name: name, Points: points})
		}
		board.Rows = standings.RankNonZero(rows)

	case challenge.TypeTournament:
		scores, err := s.challengeRepo.ListTeamScores(ctx, ch.ID)
		if err != nil {
			return ChallengeLeaderboard{}, fmt.Errorf("list team scores: %w", err)
		}
		matches, err := s.challengeRepo.ListMatches(ctx, ch.ID)
		if err != nil {
			return ChallengeLeaderboard{}, fmt.Errorf("list matches: %w", err)
		}
		totals := standings.TournamentTeamTotals(scores, matches)
		board.Rows = standings.RankNonZero(teamRowsFromTotals(totals, ros))
		if len(scores) == 0 {
			board.Table = tournamentTable(matches, totals, ros, board.Rows)
		}
	}

	return board, nil
}

// ReviewInput carries one review decision. AwardedPoints is required on
// approval and forbidden past the challenge cap.
type ReviewInput struct {
	Approve       bool
	AwardedPoints *float64
}

func (s *ChallengeService) ReviewSubmission(ctx context.Context, leagueID, challengeID, submissionID string, principal user.Principal, input ReviewInput) (challenge.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.ReviewSubmission")
	defer span.End()

	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return challenge.Submission{}, err
	}
	if err := s.requireGovernor(ctx, lg.ID, principal); err != nil {
		return challenge.Submission{}, err
	}

	now := s.now()
	reviewed, err := s.challengeRepo.ReviewSubmission(ctx, challengeID, submissionID, func(ch challenge.Challenge, sub challenge.Submission) (challenge.Submission, error) {
		if ch.LeagueID != lg.ID {
			return challenge.Submission{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
		}
		if gateErr := ch.CanReview(now); gateErr != nil {
			return challenge.Submission{}, fmt.Errorf("%w: %v", ErrInvalidTransition, gateErr)
		}

		reviewedAt := now
		sub.ReviewedAt = &reviewedAt
		sub.ReviewedBy = principal.UserID

		if !input.Approve {
			sub.Status = challenge.SubmissionRejected
			// A rejection clears any previously awarded points.
			sub.AwardedPoints = nil
			return sub, nil
		}

		if input.AwardedPoints == nil {
			return challenge.Submission{}, fmt.Errorf("%w: awarded points are required to approve a submission", ErrInvalidInput)
		}
		points := *input.AwardedPoints
		if points <= 0 {
			return challenge.Submission{}, fmt.Errorf("%w: awarded points must be positive", ErrInvalidInput)
		}
		if ch.TotalPoints > 0 && points > ch.TotalPoints {
			return challenge.Submission{}, fmt.Errorf("%w: awarded points %.1f exceed the challenge cap of %.1f", ErrInvalidInput, points, ch.TotalPoints)
		}

		sub.Status = challenge.SubmissionApproved
		sub.AwardedPoints = &points
		return sub, nil
	})
	if err != nil {
		return challenge.Submission{}, err
	}

	return reviewed, nil
}

func (s *ChallengeService) PublishChallenge(ctx context.Context, leagueID, challengeID string, principal user.Principal) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.PublishChallenge")
	defer span.End()

	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return challenge.Challenge{}, err
	}
	if err := s.requireGovernor(ctx, lg.ID, principal); err != nil {
		return challenge.Challenge{}, err
	}

	now := s.now()
	published, err := s.challengeRepo.Publish(ctx, challengeID, func(ch challenge.Challenge, pendingSubmissions int) (challenge.Challenge, error) {
		if ch.LeagueID != lg.ID {
			return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
		}
		if gateErr := ch.CanPublish(now, pendingSubmissions); gateErr != nil {
			return challenge.Challenge{}, fmt.Errorf("%w: %v", ErrInvalidTransition, gateErr)
		}
		ch.Status = challenge.StatusPublished
		return ch, nil
	})
	if err != nil {
		return challenge.Challenge{}, err
	}

	s.logger.InfoContext(ctx, "challenge published", "league_id", lg.ID, "challenge_id", challengeID, "by", principal.UserID)
	return published, nil
}

// CloseChallenge finalizes a published challenge: its computed per-team
// points are written into the league bonus table (overwriting this
// challenge's rows from scratch, so re-running is harmless) and the challenge
// becomes immutable.
func (s *ChallengeService) CloseChallenge(ctx context.Context, leagueID, challengeID string, principal user.Principal) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.CloseChallenge")
	defer span.End()

	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return challenge.Challenge{}, err
	}
	if err := s.requireGovernor(ctx, lg.ID, principal); err != nil {
		return challenge.Challenge{}, err
	}

	ros, err := s.rosterRepo.Snapshot(ctx, lg.ID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("snapshot roster: %w", err)
	}

	now := s.now()
	closed, err := s.challengeRepo.Close(ctx, challengeID, func(ch challenge.Challenge) (challenge.Challenge, []challenge.TeamBonus, error) {
		if ch.LeagueID != lg.ID {
			return challenge.Challenge{}, nil, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
		}
		if gateErr := ch.CanClose(now); gateErr != nil {
			return challenge.Challenge{}, nil, fmt.Errorf("%w: %v", ErrInvalidTransition, gateErr)
		}

		// Submissions are frozen once published, so reading them outside the
		// challenge row lock is safe.
		bonuses, err := s.computeChallengeBonuses(ctx, ch, ros)
		if err != nil {
			return challenge.Challenge{}, nil, err
		}

		ch.Status = challenge.StatusClosed
		return ch, bonuses, nil
	})
	if err != nil {
		return challenge.Challenge{}, err
	}

	s.logger.InfoContext(ctx, "challenge closed", "league_id", lg.ID, "challenge_id", challengeID, "by", principal.UserID)
	return closed, nil
}

// TeamScoreInput assigns a manual score to one team for a team or tournament
// challenge.
type TeamScoreInput struct {
	TeamID string
	Score  float64
}

func (s *ChallengeService) AssignTeamScore(ctx context.Context, leagueID, challengeID string, principal user.Principal, input TeamScoreInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.AssignTeamScore")
	defer span.End()

	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if err := s.requireGovernor(ctx, lg.ID, principal); err != nil {
		return err
	}
	if input.Score < 0 {
		return fmt.Errorf("%w: team score cannot be negative", ErrInvalidInput)
	}

	ros, err := s.rosterRepo.Snapshot(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("snapshot roster: %w", err)
	}
	if _, ok := ros.Team(input.TeamID); !ok {
		return fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}

	now := s.now()
	score := challenge.TeamScore{
		ChallengeID: challengeID,
		TeamID:      input.TeamID,
		Score:       input.Score,
		AssignedBy:  principal.UserID,
		AssignedAt:  now,
	}

	return s.challengeRepo.UpsertTeamScore(ctx, score, func(ch challenge.Challenge) error {
		if ch.LeagueID != lg.ID {
			return fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
		}
		if ch.Type != challenge.TypeTeam && ch.Type != challenge.TypeTournament {
			return fmt.Errorf("%w: team scores only apply to team and tournament challenges", ErrInvalidInput)
		}
		if gateErr := ch.CanAssignTeamScores(now); gateErr != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, gateErr)
		}
		return nil
	})
}

func (s *ChallengeService) computeChallengeBonuses(ctx context.Context, ch challenge.Challenge, ros roster.Snapshot) ([]challenge.TeamBonus, error) {
	submissions, err := s.challengeRepo.ListSubmissions(ctx, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	approved := make([]challenge.Submission, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Status == challenge.SubmissionApproved {
			approved = append(approved, sub)
		}
	}

	in := standings.ChallengeInput{
		Challenges:  []challenge.Challenge{ch},
		Submissions: standings.DedupeSubmissions(approved),
	}
	if ch.Type == challenge.TypeTournament {
		scores, err := s.challengeRepo.ListTeamScores(ctx, ch.ID)
		if err != nil {
			return nil, fmt.Errorf("list team scores: %w", err)
		}
		matches, err := s.challengeRepo.ListMatches(ctx, ch.ID)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		in.TeamScores = map[string][]challenge.TeamScore{ch.ID: scores}
		in.Matches = map[string][]challenge.Match{ch.ID: matches}
	}

	totals := standings.AggregateChallengePoints(in, ros)
	if totals.Anomalies.Total() > 0 {
		s.logger.WarnContext(ctx, "challenge close skipped bad rows",
			"challenge_id", ch.ID,
			"skipped", totals.Anomalies.Total(),
		)
	}

	bonuses := make([]challenge.TeamBonus, 0, len(totals.TeamPoints))
	for teamID, points := range totals.TeamPoints {
		if points <= 0 {
			continue
		}
		bonuses = append(bonuses, challenge.TeamBonus{
			LeagueID:    ch.LeagueID,
			ChallengeID: ch.ID,
			TeamID:      teamID,
			Points:      points,
		})
	}

	return bonuses, nil
}

func (s *ChallengeService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return lg, nil
}

func (s *ChallengeService) getChallengeWithRoster(ctx context.Context, leagueID, challengeID string) (challenge.Challenge, roster.Snapshot, error) {
	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return challenge.Challenge{}, roster.Snapshot{}, err
	}

	ch, exists, err := s.challengeRepo.GetByID(ctx, lg.ID, challengeID)
	if err != nil {
		return challenge.Challenge{}, roster.Snapshot{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Challenge{}, roster.Snapshot{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}

	ros, err := s.rosterRepo.Snapshot(ctx, lg.ID)
	if err != nil {
		return challenge.Challenge{}, roster.Snapshot{}, fmt.Errorf("snapshot roster: %w", err)
	}

	return ch, ros, nil
}

func (s *ChallengeService) requireGovernor(ctx context.Context, leagueID string, principal user.Principal) error {
	membership, err := s.roles.Resolve(ctx, leagueID, principal.UserID)
	if err != nil {
		return fmt.Errorf("resolve role: %w", err)
	}
	if !membership.AtLeastGovernor() {
		return fmt.Errorf("%w: this action requires league governor or host authority", ErrForbidden)
	}
	return nil
}

func teamRowsFromTotals(totals map[string]float64, ros roster.Snapshot) []standings.Row {
	rows := make([]standings.Row, 0, len(totals))
	for teamID, points := range totals {
		name := teamID
		if team, ok := ros.Team(teamID); ok && team.Name != "" {
			name = team.Name
		}
		rows = append(rows, standings.Row{ID: teamID, Name: name, Points: points})
	}
	return rows
}

func tournamentTable(matches []challenge.Match, totals map[string]float64, ros roster.Snapshot, ranked []standings.RankedRow) []TournamentTableRow {
	type record struct{ played, won, draw, lost int }
	records := make(map[string]record)
	for _, match := range matches {
		if !match.Completed {
			continue
		}
		home, away := records[match.HomeTeamID], records[match.AwayTeamID]
		home.played++
		away.played++
		switch {
		case match.HomeScore > match.AwayScore:
			home.won++
			away.lost++
		case match.HomeScore < match.AwayScore:
			away.won++
			home.lost++
		default:
			home.draw++
			away.draw++
		}
		records[match.HomeTeamID] = home
		records[match.AwayTeamID] = away
	}

	rows := make([]TournamentTableRow, 0, len(ranked))
	for _, row := range ranked {
		rec := records[row.ID]
		name := row.Name
		if team, ok := ros.Team(row.ID); ok && team.Name != "" {
			name = team.Name
		}
		rows = append(rows, TournamentTableRow{
			TeamID: row.ID,
			Name:   name,
			Played: rec.played,
			Won:    rec.won,
			Draw:   rec.draw,
			Lost:   rec.lost,
			Points: totals[row.ID],
		})
	}

	return rows
}
