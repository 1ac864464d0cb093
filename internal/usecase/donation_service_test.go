package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/user"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

func newDonationFixture(donationRepo *stubDonationRepo) (*DonationService, *stubRosterRepo) {
	rosterRepo := &stubRosterRepo{snapshot: testRoster()}
	donationRepo.roster = rosterRepo
	roles := &stubRoleResolver{memberships: map[string]user.Membership{
		"gov1": {UserID: "gov1", Role: user.RoleGovernor},
		"m1":   {UserID: "m1", Role: user.RoleCaptain, TeamID: "team-a", Member: true},
		"m2":   {UserID: "m2", Role: user.RolePlayer, TeamID: "team-a", Member: true},
		"m5":   {UserID: "m5", Role: user.RoleCaptain, TeamID: "team-b", Member: true},
	}}
	service := NewDonationService(
		newStubLeagueRepo(testLeague(league.StatusActive)),
		rosterRepo,
		donationRepo,
		roles,
		&stubIDGenerator{},
		logging.NewNop(),
	)
	service.now = func() time.Time {
		return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	}
	return service, rosterRepo
}

func pendingDonation(id string) donation.Request {
	return donation.Request{
		ID:         id,
		LeagueID:   "lg1",
		DonorID:    "m1",
		ReceiverID: "m5",
		Days:       2,
		Status:     donation.StatusPending,
		ProofRef:   "https://img.example/proof.png",
		CreatedAt:  time.Date(2024, time.June, 9, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateDonation(t *testing.T) {
	t.Parallel()

	donationRepo := newStubDonationRepo()
	service, _ := newDonationFixture(donationRepo)

	created, err := service.CreateDonation(context.Background(), "lg1", user.Principal{UserID: "m1"}, CreateDonationInput{
		ReceiverID: "m5",
		Days:       2,
		ProofRef:   "https://img.example/proof.png",
	})
	if err != nil {
		t.Fatalf("create donation: %v", err)
	}
	if created.Status != donation.StatusPending {
		t.Fatalf("unexpected status: got=%s want=%s", created.Status, donation.StatusPending)
	}
	if created.DonorID != "m1" || created.ReceiverID != "m5" {
		t.Fatalf("unexpected parties: %+v", created)
	}

	// m1 holds five rest days.
	if _, err := service.CreateDonation(context.Background(), "lg1", user.Principal{UserID: "m1"}, CreateDonationInput{ReceiverID: "m5", Days: 6}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("overdraw must fail, got %v", err)
	}
	if _, err := service.CreateDonation(context.Background(), "lg1", user.Principal{UserID: "outsider"}, CreateDonationInput{ReceiverID: "m5", Days: 1}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-member donor must fail, got %v", err)
	}
	if _, err := service.CreateDonation(context.Background(), "lg1", user.Principal{UserID: "m1"}, CreateDonationInput{ReceiverID: "stranger", Days: 1}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-member receiver must fail, got %v", err)
	}
	if _, err := service.CreateDonation(context.Background(), "lg1", user.Principal{UserID: "m1"}, CreateDonationInput{ReceiverID: "m1", Days: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self-donation must fail, got %v", err)
	}
}

func TestTransitionDonation_FullChain(t *testing.T) {
	t.Parallel()

	donationRepo := newStubDonationRepo(pendingDonation("don1"))
	service, rosterRepo := newDonationFixture(donationRepo)

	// The donor's own captain endorses first.
	endorsed, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "m1"}, donation.ActionCaptainApprove)
	if err != nil {
		t.Fatalf("captain approve: %v", err)
	}
	if endorsed.Status != donation.StatusCaptainApproved {
		t.Fatalf("unexpected status: got=%s want=%s", endorsed.Status, donation.StatusCaptainApproved)
	}
	if len(rosterRepo.transfers) != 0 {
		t.Fatalf("no balance may move before final approval")
	}

	approved, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "gov1"}, donation.ActionApprove)
	if err != nil {
		t.Fatalf("governor approve: %v", err)
	}
	if approved.Status != donation.StatusApproved {
		t.Fatalf("unexpected status: got=%s want=%s", approved.Status, donation.StatusApproved)
	}
	if approved.DecidedAt == nil || approved.DecidedBy != "gov1" {
		t.Fatalf("decision audit fields must be set: %+v", approved)
	}

	if len(rosterRepo.transfers) != 1 {
		t.Fatalf("transfer must happen exactly once, got %d", len(rosterRepo.transfers))
	}
	got := rosterRepo.transfers[0]
	if got.donorID != "m1" || got.receiverID != "m5" || got.days != 2 {
		t.Fatalf("unexpected transfer: %+v", got)
	}

	// Terminal states are immutable, and no second transfer may happen.
	if _, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "gov1"}, donation.ActionApprove); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-approving must fail, got %v", err)
	}
	if len(rosterRepo.transfers) != 1 {
		t.Fatalf("transfer must still have happened exactly once, got %d", len(rosterRepo.transfers))
	}
}

func TestTransitionDonation_GovernorSkipsCaptainStage(t *testing.T) {
	t.Parallel()

	donationRepo := newStubDonationRepo(pendingDonation("don1"))
	service, rosterRepo := newDonationFixture(donationRepo)

	approved, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "gov1"}, donation.ActionApprove)
	if err != nil {
		t.Fatalf("governor approve from pending: %v", err)
	}
	if approved.Status != donation.StatusApproved {
		t.Fatalf("unexpected status: got=%s", approved.Status)
	}
	if len(rosterRepo.transfers) != 1 {
		t.Fatalf("transfer must happen exactly once, got %d", len(rosterRepo.transfers))
	}
}

func TestTransitionDonation_FailedTransferKeepsPriorStatus(t *testing.T) {
	t.Parallel()

	donationRepo := newStubDonationRepo(pendingDonation("don1"))
	service, rosterRepo := newDonationFixture(donationRepo)
	rosterRepo.transferErr = fmt.Errorf("%w: donor holds 0 rest days, cannot transfer 2", ErrInvalidTransition)

	_, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "gov1"}, donation.ActionApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("failed transfer must surface, got %v", err)
	}

	// The request must not be stuck approved with no balance moved.
	stored, found, getErr := donationRepo.GetByID(context.Background(), "lg1", "don1")
	if getErr != nil || !found {
		t.Fatalf("get donation after failed approval: found=%v err=%v", found, getErr)
	}
	if stored.Status != donation.StatusPending {
		t.Fatalf("status must stay %s after a failed transfer, got %s", donation.StatusPending, stored.Status)
	}
	if len(rosterRepo.transfers) != 0 {
		t.Fatalf("no balance may move on a failed approval")
	}

	// A retry succeeds once the transfer can go through.
	rosterRepo.transferErr = nil
	approved, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "gov1"}, donation.ActionApprove)
	if err != nil {
		t.Fatalf("retry approve: %v", err)
	}
	if approved.Status != donation.StatusApproved || len(rosterRepo.transfers) != 1 {
		t.Fatalf("retry must approve and transfer once: status=%s transfers=%d", approved.Status, len(rosterRepo.transfers))
	}
}

func TestTransitionDonation_GuardMatrix(t *testing.T) {
	t.Parallel()

	donationRepo := newStubDonationRepo(pendingDonation("don1"))
	service, rosterRepo := newDonationFixture(donationRepo)

	// m5 captains team bravo, not the donor's team.
	if _, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "m5"}, donation.ActionCaptainApprove); !errors.Is(err, ErrForbidden) {
		t.Fatalf("wrong-team captain must be forbidden, got %v", err)
	}
	if _, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "m2"}, donation.ActionApprove); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player must be forbidden, got %v", err)
	}
	if _, err := service.TransitionDonation(context.Background(), "lg1", "missing", user.Principal{UserID: "gov1"}, donation.ActionApprove); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown donation must be not-found, got %v", err)
	}
	if len(rosterRepo.transfers) != 0 {
		t.Fatalf("failed transitions must not move any balance")
	}

	rejected, err := service.TransitionDonation(context.Background(), "lg1", "don1", user.Principal{UserID: "m1"}, donation.ActionReject)
	if err != nil {
		t.Fatalf("captain reject: %v", err)
	}
	if rejected.Status != donation.StatusRejected {
		t.Fatalf("unexpected status: got=%s", rejected.Status)
	}
	if len(rosterRepo.transfers) != 0 {
		t.Fatalf("a rejection must never transfer days")
	}
}

func TestListDonations_ScopedByRole(t *testing.T) {
	t.Parallel()

	own := pendingDonation("don1")
	teammate := donation.Request{
		ID: "don2", LeagueID: "lg1", DonorID: "m2", ReceiverID: "m6",
		Days: 1, Status: donation.StatusPending,
		CreatedAt: time.Date(2024, time.June, 9, 11, 0, 0, 0, time.UTC),
	}
	unrelated := donation.Request{
		ID: "don3", LeagueID: "lg1", DonorID: "m6", ReceiverID: "m2",
		Days: 1, Status: donation.StatusPending,
		CreatedAt: time.Date(2024, time.June, 9, 12, 0, 0, 0, time.UTC),
	}
	donationRepo := newStubDonationRepo(own, teammate, unrelated)
	service, _ := newDonationFixture(donationRepo)

	asGovernor, err := service.ListDonations(context.Background(), "lg1", user.Principal{UserID: "gov1"})
	if err != nil {
		t.Fatalf("list as governor: %v", err)
	}
	if len(asGovernor) != 3 {
		t.Fatalf("governor must see every request, got %d", len(asGovernor))
	}

	asCaptain, err := service.ListDonations(context.Background(), "lg1", user.Principal{UserID: "m1"})
	if err != nil {
		t.Fatalf("list as captain: %v", err)
	}
	// Own request plus the teammate's outgoing one; m6's outgoing request
	// belongs to team bravo's queue.
	if len(asCaptain) != 2 {
		t.Fatalf("captain must see their team's outgoing queue, got %d", len(asCaptain))
	}

	asPlayer, err := service.ListDonations(context.Background(), "lg1", user.Principal{UserID: "m2"})
	if err != nil {
		t.Fatalf("list as player: %v", err)
	}
	if len(asPlayer) != 2 {
		t.Fatalf("player must see only requests naming them, got %d", len(asPlayer))
	}
	for _, item := range asPlayer {
		if item.DonorID != "m2" && item.ReceiverID != "m2" {
			t.Fatalf("player list leaked request %s", item.ID)
		}
	}
}
