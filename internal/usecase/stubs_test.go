package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	"github.com/riskibarqy/effort-league/internal/domain/user"
)

type stubLeagueRepo struct {
	mu      sync.Mutex
	leagues map[string]league.League
}

func newStubLeagueRepo(leagues ...league.League) *stubLeagueRepo {
	byID := make(map[string]league.League, len(leagues))
	for _, lg := range leagues {
		byID[lg.ID] = lg
	}
	return &stubLeagueRepo{leagues: byID}
}

func (r *stubLeagueRepo) List(_ context.Context) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]league.League, 0, len(r.leagues))
	for _, lg := range r.leagues {
		out = append(out, lg)
	}
	return out, nil
}

func (r *stubLeagueRepo) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	return lg, ok, nil
}

func (r *stubLeagueRepo) MarkCompleted(_ context.Context, leagueID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	if !ok || lg.Status == league.StatusCompleted {
		return false, nil
	}
	lg.Status = league.StatusCompleted
	r.leagues[leagueID] = lg
	return true, nil
}

type restTransfer struct {
	donorID    string
	receiverID string
	days       int
}

type stubRosterRepo struct {
	snapshot    roster.Snapshot
	transfers   []restTransfer
	transferErr error
}

func (r *stubRosterRepo) Snapshot(_ context.Context, _ string) (roster.Snapshot, error) {
	return r.snapshot, nil
}

func (r *stubRosterRepo) GetMember(_ context.Context, leagueID, memberID string) (roster.Member, bool, error) {
	member, ok := r.snapshot.Member(memberID)
	if !ok || member.LeagueID != leagueID {
		return roster.Member{}, false, nil
	}
	return member, true, nil
}

func (r *stubRosterRepo) TransferRestDays(_ context.Context, donorID, receiverID string, days int) error {
	if r.transferErr != nil {
		return r.transferErr
	}
	r.transfers = append(r.transfers, restTransfer{donorID: donorID, receiverID: receiverID, days: days})
	return nil
}

type stubEffortRepo struct {
	entries []effort.Entry
}

func (r *stubEffortRepo) ListByLeagueRange(_ context.Context, leagueID string, _, _ time.Time) ([]effort.Entry, error) {
	out := make([]effort.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.LeagueID == leagueID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubChallengeRepo struct {
	mu          sync.Mutex
	challenges  map[string]challenge.Challenge
	submissions map[string]challenge.Submission
	scores      map[string][]challenge.TeamScore
	matches     map[string][]challenge.Match
	bonuses     []challenge.TeamBonus
}

func newStubChallengeRepo() *stubChallengeRepo {
	return &stubChallengeRepo{
		challenges:  make(map[string]challenge.Challenge),
		submissions: make(map[string]challenge.Submission),
		scores:      make(map[string][]challenge.TeamScore),
		matches:     make(map[string][]challenge.Match),
	}
}

func (r *stubChallengeRepo) ListByLeague(_ context.Context, leagueID string) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]challenge.Challenge, 0, len(r.challenges))
	for _, ch := range r.challenges {
		if ch.LeagueID == leagueID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (r *stubChallengeRepo) GetByID(_ context.Context, leagueID, challengeID string) (challenge.Challenge, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.challenges[challengeID]
	if !ok || ch.LeagueID != leagueID {
		return challenge.Challenge{}, false, nil
	}
	return ch, true, nil
}

func (r *stubChallengeRepo) ListSubmissions(_ context.Context, challengeID string) ([]challenge.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]challenge.Submission, 0, len(r.submissions))
	for _, sub := range r.submissions {
		if sub.ChallengeID == challengeID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *stubChallengeRepo) ListSubmissionsByLeague(_ context.Context, leagueID string) ([]challenge.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]challenge.Submission, 0, len(r.submissions))
	for _, sub := range r.submissions {
		ch, ok := r.challenges[sub.ChallengeID]
		if ok && ch.LeagueID == leagueID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *stubChallengeRepo) ReviewSubmission(_ context.Context, challengeID, submissionID string, apply func(challenge.Challenge, challenge.Submission) (challenge.Submission, error)) (challenge.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.challenges[challengeID]
	if !ok {
		return challenge.Submission{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	sub, ok := r.submissions[submissionID]
	if !ok || sub.ChallengeID != challengeID {
		return challenge.Submission{}, fmt.Errorf("%w: submission=%s", ErrNotFound, submissionID)
	}
	updated, err := apply(ch, sub)
	if err != nil {
		return challenge.Submission{}, err
	}
	r.submissions[submissionID] = updated
	return updated, nil
}

func (r *stubChallengeRepo) Publish(_ context.Context, challengeID string, apply func(challenge.Challenge, int) (challenge.Challenge, error)) (challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.challenges[challengeID]
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	pending := 0
	for _, sub := range r.submissions {
		if sub.ChallengeID == challengeID && sub.Status == challenge.SubmissionPending {
			pending++
		}
	}
	updated, err := apply(ch, pending)
	if err != nil {
		return challenge.Challenge{}, err
	}
	r.challenges[challengeID] = updated
	return updated, nil
}

func (r *stubChallengeRepo) Close(_ context.Context, challengeID string, apply func(challenge.Challenge) (challenge.Challenge, []challenge.TeamBonus, error)) (challenge.Challenge, error) {
	r.mu.Lock()
	ch, ok := r.challenges[challengeID]
	r.mu.Unlock()
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	updated, bonuses, err := apply(ch)
	if err != nil {
		return challenge.Challenge{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[challengeID] = updated
	kept := r.bonuses[:0]
	for _, bonus := range r.bonuses {
		if bonus.ChallengeID != challengeID {
			kept = append(kept, bonus)
		}
	}
	r.bonuses = append(kept, bonuses...)
	return updated, nil
}

func (r *stubChallengeRepo) ListTeamScores(_ context.Context, challengeID string) ([]challenge.TeamScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]challenge.TeamScore(nil), r.scores[challengeID]...), nil
}

func (r *stubChallengeRepo) UpsertTeamScore(_ context.Context, score challenge.TeamScore, apply func(challenge.Challenge) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.challenges[score.ChallengeID]
	if !ok {
		return fmt.Errorf("%w: challenge=%s", ErrNotFound, score.ChallengeID)
	}
	if err := apply(ch); err != nil {
		return err
	}
	rows := r.scores[score.ChallengeID]
	for i := range rows {
		if rows[i].TeamID == score.TeamID {
			rows[i] = score
			r.scores[score.ChallengeID] = rows
			return nil
		}
	}
	r.scores[score.ChallengeID] = append(rows, score)
	return nil
}

func (r *stubChallengeRepo) ListMatches(_ context.Context, challengeID string) ([]challenge.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]challenge.Match(nil), r.matches[challengeID]...), nil
}

func (r *stubChallengeRepo) ListTeamBonuses(_ context.Context, leagueID string) ([]challenge.TeamBonus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]challenge.TeamBonus, 0, len(r.bonuses))
	for _, bonus := range r.bonuses {
		if bonus.LeagueID == leagueID {
			out = append(out, bonus)
		}
	}
	return out, nil
}

type stubDonationRepo struct {
	mu        sync.Mutex
	roster    *stubRosterRepo
	donations map[string]donation.Request
}

func newStubDonationRepo(items ...donation.Request) *stubDonationRepo {
	byID := make(map[string]donation.Request, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &stubDonationRepo{donations: byID}
}

func (r *stubDonationRepo) Create(_ context.Context, req donation.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations[req.ID] = req
	return nil
}

func (r *stubDonationRepo) GetByID(_ context.Context, leagueID, donationID string) (donation.Request, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.donations[donationID]
	if !ok || req.LeagueID != leagueID {
		return donation.Request{}, false, nil
	}
	return req, true, nil
}

func (r *stubDonationRepo) ListByLeague(_ context.Context, leagueID string) ([]donation.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]donation.Request, 0, len(r.donations))
	for _, req := range r.donations {
		if req.LeagueID == leagueID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *stubDonationRepo) Transition(ctx context.Context, donationID string, apply func(donation.Request) (donation.Request, error)) (donation.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.donations[donationID]
	if !ok {
		return donation.Request{}, fmt.Errorf("%w: donation=%s", ErrNotFound, donationID)
	}
	updated, err := apply(req)
	if err != nil {
		return donation.Request{}, err
	}
	if updated.Status == donation.StatusApproved && r.roster != nil {
		if err := r.roster.TransferRestDays(ctx, updated.DonorID, updated.ReceiverID, updated.Days); err != nil {
			return donation.Request{}, err
		}
	}
	r.donations[donationID] = updated
	return updated, nil
}

type stubRoleResolver struct {
	memberships map[string]user.Membership
}

func (r *stubRoleResolver) Resolve(_ context.Context, _ string, userID string) (user.Membership, error) {
	if m, ok := r.memberships[userID]; ok {
		return m, nil
	}
	return user.Membership{UserID: userID, Role: user.RolePlayer}, nil
}

type stubIDGenerator struct {
	next int
}

func (g *stubIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type stubJobPublisher struct {
	mu       sync.Mutex
	enqueued []string
}

func (p *stubJobPublisher) Enqueue(_ context.Context, path string, _ any, _ time.Duration, dedupeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enqueued = append(p.enqueued, path+"|"+dedupeID)
	return nil
}
