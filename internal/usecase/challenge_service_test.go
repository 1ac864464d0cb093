package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/user"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

func newChallengeFixture(challengeRepo *stubChallengeRepo) *ChallengeService {
	roles := &stubRoleResolver{memberships: map[string]user.Membership{
		"gov1":  {UserID: "gov1", Role: user.RoleGovernor},
		"host1": {UserID: "host1", Role: user.RoleHost},
		"m1":    {UserID: "m1", Role: user.RoleCaptain, TeamID: "team-a", Member: true},
		"m2":    {UserID: "m2", Role: user.RolePlayer, TeamID: "team-a", Member: true},
	}}
	service := NewChallengeService(
		newStubLeagueRepo(testLeague(league.StatusActive)),
		&stubRosterRepo{snapshot: testRoster()},
		challengeRepo,
		roles,
		logging.NewNop(),
	)
	service.now = func() time.Time {
		return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func pendingSubmission(id, challengeID, memberID, teamID string) challenge.Submission {
	return challenge.Submission{
		ID:          id,
		ChallengeID: challengeID,
		MemberID:    memberID,
		TeamID:      teamID,
		Status:      challenge.SubmissionPending,
		CreatedAt:   time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestListChallenges_StatsVisibilityByRole(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Plank Marathon",
		Type: challenge.TypeIndividual, TotalPoints: 100,
		Status: challenge.StatusDraft,
	}
	challengeRepo.submissions["sub1"] = pendingSubmission("sub1", "ch1", "m2", "team-a")
	service := newChallengeFixture(challengeRepo)

	asGovernor, err := service.ListChallenges(context.Background(), "lg1", user.Principal{UserID: "gov1"})
	if err != nil {
		t.Fatalf("list challenges as governor: %v", err)
	}
	if len(asGovernor) != 1 {
		t.Fatalf("unexpected challenge count: got=%d want=1", len(asGovernor))
	}
	if asGovernor[0].Stats == nil || asGovernor[0].Stats.Pending != 1 {
		t.Fatalf("governor must see review counters, got %+v", asGovernor[0].Stats)
	}

	asPlayer, err := service.ListChallenges(context.Background(), "lg1", user.Principal{UserID: "m2"})
	if err != nil {
		t.Fatalf("list challenges as player: %v", err)
	}
	if asPlayer[0].Stats != nil {
		t.Fatalf("player must not see review counters")
	}
	if asPlayer[0].OwnSubmission == nil || asPlayer[0].OwnSubmission.ID != "sub1" {
		t.Fatalf("player must see their own submission")
	}
}

func TestReviewSubmission_GovernorOnlyAndStatusGated(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Plank Marathon",
		Type: challenge.TypeIndividual, TotalPoints: 100,
		Status: challenge.StatusDraft,
	}
	challengeRepo.submissions["sub1"] = pendingSubmission("sub1", "ch1", "m2", "team-a")
	service := newChallengeFixture(challengeRepo)

	points := 30.0
	approve := ReviewInput{Approve: true, AwardedPoints: &points}

	if _, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "m1"}, approve); !errors.Is(err, ErrForbidden) {
		t.Fatalf("captain must not review, got %v", err)
	}

	// Draft means the submission window is still open.
	if _, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "gov1"}, approve); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("review before submission close must fail, got %v", err)
	}

	closedWindow := challengeRepo.challenges["ch1"]
	closedWindow.Status = challenge.StatusSubmissionClosed
	challengeRepo.challenges["ch1"] = closedWindow

	if _, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "gov1"}, ReviewInput{Approve: true}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("approval without points must fail, got %v", err)
	}
	over := 150.0
	if _, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "gov1"}, ReviewInput{Approve: true, AwardedPoints: &over}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("points above the challenge cap must fail, got %v", err)
	}
	zero := 0.0
	if _, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "gov1"}, ReviewInput{Approve: true, AwardedPoints: &zero}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("a zero award must fail, got %v", err)
	}

	reviewed, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "gov1"}, approve)
	if err != nil {
		t.Fatalf("review submission: %v", err)
	}
	if reviewed.Status != challenge.SubmissionApproved {
		t.Fatalf("unexpected status: got=%s want=%s", reviewed.Status, challenge.SubmissionApproved)
	}
	if reviewed.AwardedPoints == nil || *reviewed.AwardedPoints != 30 {
		t.Fatalf("unexpected awarded points: %+v", reviewed.AwardedPoints)
	}
	if reviewed.ReviewedBy != "gov1" || reviewed.ReviewedAt == nil {
		t.Fatalf("review audit fields must be set: %+v", reviewed)
	}
}

func TestReviewSubmission_RejectionClearsPoints(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Plank Marathon",
		Type: challenge.TypeIndividual, TotalPoints: 100,
		Status: challenge.StatusSubmissionClosed,
	}
	points := 25.0
	sub := pendingSubmission("sub1", "ch1", "m2", "team-a")
	sub.Status = challenge.SubmissionApproved
	sub.AwardedPoints = &points
	challengeRepo.submissions["sub1"] = sub
	service := newChallengeFixture(challengeRepo)

	reviewed, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", user.Principal{UserID: "gov1"}, ReviewInput{Approve: false})
	if err != nil {
		t.Fatalf("reject submission: %v", err)
	}
	if reviewed.Status != challenge.SubmissionRejected {
		t.Fatalf("unexpected status: got=%s", reviewed.Status)
	}
	if reviewed.AwardedPoints != nil {
		t.Fatalf("rejection must clear awarded points")
	}
}

func TestPublishChallenge_BlockedWhilePendingReviews(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Plank Marathon",
		Type: challenge.TypeIndividual, TotalPoints: 100,
		Status: challenge.StatusSubmissionClosed,
	}
	challengeRepo.submissions["sub1"] = pendingSubmission("sub1", "ch1", "m2", "team-a")
	service := newChallengeFixture(challengeRepo)
	governor := user.Principal{UserID: "gov1"}

	if _, err := service.PublishChallenge(context.Background(), "lg1", "ch1", governor); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("publish with a pending review must fail, got %v", err)
	}

	points := 30.0
	if _, err := service.ReviewSubmission(context.Background(), "lg1", "ch1", "sub1", governor, ReviewInput{Approve: true, AwardedPoints: &points}); err != nil {
		t.Fatalf("review submission: %v", err)
	}

	published, err := service.PublishChallenge(context.Background(), "lg1", "ch1", governor)
	if err != nil {
		t.Fatalf("publish challenge: %v", err)
	}
	if published.Status != challenge.StatusPublished {
		t.Fatalf("unexpected status: got=%s want=%s", published.Status, challenge.StatusPublished)
	}

	// Publishing twice is a no-op conflict, not a silent success.
	if _, err := service.PublishChallenge(context.Background(), "lg1", "ch1", governor); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double publish must fail, got %v", err)
	}
}

func TestCloseChallenge_WritesCappedBonusRows(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Plank Marathon",
		Type: challenge.TypeIndividual, TotalPoints: 100,
		Status: challenge.StatusPublished,
	}
	points := 40.0
	sub := pendingSubmission("sub1", "ch1", "m1", "team-a")
	sub.Status = challenge.SubmissionApproved
	sub.AwardedPoints = &points
	challengeRepo.submissions["sub1"] = sub
	service := newChallengeFixture(challengeRepo)
	governor := user.Principal{UserID: "gov1"}

	closed, err := service.CloseChallenge(context.Background(), "lg1", "ch1", governor)
	if err != nil {
		t.Fatalf("close challenge: %v", err)
	}
	if closed.Status != challenge.StatusClosed {
		t.Fatalf("unexpected status: got=%s want=%s", closed.Status, challenge.StatusClosed)
	}

	bonuses, err := challengeRepo.ListTeamBonuses(context.Background(), "lg1")
	if err != nil {
		t.Fatalf("list team bonuses: %v", err)
	}
	if len(bonuses) != 1 {
		t.Fatalf("unexpected bonus row count: got=%d want=1", len(bonuses))
	}
	// Four members on team alpha cap the 40-point win at 100/4 = 25.
	if !almostEqualFloat(bonuses[0].Points, 25) {
		t.Fatalf("unexpected bonus points: got=%v want=25", bonuses[0].Points)
	}

	if _, err := service.CloseChallenge(context.Background(), "lg1", "ch1", governor); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("closing a closed challenge must fail, got %v", err)
	}
}

func TestAssignTeamScore_OnlyBeforePublish(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Tug of War",
		Type: challenge.TypeTeam, TotalPoints: 50,
		Status: challenge.StatusSubmissionClosed,
	}
	service := newChallengeFixture(challengeRepo)
	governor := user.Principal{UserID: "gov1"}

	if err := service.AssignTeamScore(context.Background(), "lg1", "ch1", governor, TeamScoreInput{TeamID: "team-a", Score: 12}); err != nil {
		t.Fatalf("assign team score: %v", err)
	}
	if err := service.AssignTeamScore(context.Background(), "lg1", "ch1", governor, TeamScoreInput{TeamID: "ghost", Score: 3}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown team must fail, got %v", err)
	}

	published := challengeRepo.challenges["ch1"]
	published.Status = challenge.StatusPublished
	challengeRepo.challenges["ch1"] = published

	if err := service.AssignTeamScore(context.Background(), "lg1", "ch1", governor, TeamScoreInput{TeamID: "team-a", Score: 20}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("scores are frozen at publish, got %v", err)
	}
}

func TestGetChallengeLeaderboard_TournamentTable(t *testing.T) {
	t.Parallel()

	challengeRepo := newStubChallengeRepo()
	challengeRepo.challenges["ch1"] = challenge.Challenge{
		ID: "ch1", LeagueID: "lg1", Name: "Weekend Cup",
		Type: challenge.TypeTournament, TotalPoints: 50,
		Status: challenge.StatusPublished,
	}
	challengeRepo.matches["ch1"] = []challenge.Match{
		{ID: "mt1", ChallengeID: "ch1", HomeTeamID: "team-a", AwayTeamID: "team-b", HomeScore: 2, AwayScore: 1, Completed: true},
		{ID: "mt2", ChallengeID: "ch1", HomeTeamID: "team-b", AwayTeamID: "team-a", HomeScore: 1, AwayScore: 1, Completed: true},
	}
	service := newChallengeFixture(challengeRepo)

	board, err := service.GetChallengeLeaderboard(context.Background(), "lg1", "ch1")
	if err != nil {
		t.Fatalf("get challenge leaderboard: %v", err)
	}

	// Win then draw: alpha 4, bravo 1.
	if len(board.Rows) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(board.Rows))
	}
	if board.Rows[0].ID != "team-a" || !almostEqualFloat(board.Rows[0].Points, 4) {
		t.Fatalf("unexpected leader: %+v", board.Rows[0])
	}
	if len(board.Table) != 2 {
		t.Fatalf("unexpected table size: got=%d want=2", len(board.Table))
	}
	top := board.Table[0]
	if top.TeamID != "team-a" || top.Played != 2 || top.Won != 1 || top.Draw != 1 || top.Lost != 0 {
		t.Fatalf("unexpected table row: %+v", top)
	}
}
