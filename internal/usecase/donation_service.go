package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	"github.com/riskibarqy/effort-league/internal/domain/user"
	idgen "github.com/riskibarqy/effort-league/internal/platform/id"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

type DonationService struct {
	leagueRepo   league.Repository
	rosterRepo   roster.Repository
	donationRepo donation.Repository
	roles        user.RoleResolver
	ids          idgen.Generator
	now          func() time.Time
	logger       *logging.Logger
}

func NewDonationService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	donationRepo donation.Repository,
	roles user.RoleResolver,
	ids idgen.Generator,
	logger *logging.Logger,
) *DonationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &DonationService{
		leagueRepo:   leagueRepo,
		rosterRepo:   rosterRepo,
		donationRepo: donationRepo,
		roles:        roles,
		ids:          ids,
		now:          time.Now,
		logger:       logger,
	}
}

// CreateDonationInput opens a rest-day transfer request. The donor is always
// the authenticated caller.
type CreateDonationInput struct {
	ReceiverID string
	Days       int
	ProofRef   string
}

func (s *DonationService) CreateDonation(ctx context.Context, leagueID string, principal user.Principal, input CreateDonationInput) (donation.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DonationService.CreateDonation")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return donation.Request{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return donation.Request{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return donation.Request{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	// Cross-league donations are a data-integrity violation, not a validation
	// slip: both sides must be members of this league.
	donor, found, err := s.rosterRepo.GetMember(ctx, leagueID, principal.UserID)
	if err != nil {
		return donation.Request{}, fmt.Errorf("get donor: %w", err)
	}
	if !found {
		return donation.Request{}, fmt.Errorf("%w: donor is not a member of this league", ErrForbidden)
	}
	receiver, found, err := s.rosterRepo.GetMember(ctx, leagueID, input.ReceiverID)
	if err != nil {
		return donation.Request{}, fmt.Errorf("get receiver: %w", err)
	}
	if !found {
		return donation.Request{}, fmt.Errorf("%w: receiver is not a member of this league", ErrForbidden)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return donation.Request{}, fmt.Errorf("generate donation id: %w", err)
	}

	req := donation.Request{
		ID:         id,
		LeagueID:   leagueID,
		DonorID:    donor.ID,
		ReceiverID: receiver.ID,
		Days:       input.Days,
		Status:     donation.StatusPending,
		ProofRef:   strings.TrimSpace(input.ProofRef),
		CreatedAt:  s.now(),
	}
	if err := req.Validate(); err != nil {
		return donation.Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if donor.RestDays < input.Days {
		return donation.Request{}, fmt.Errorf("%w: donor holds %d rest day(s), cannot transfer %d", ErrInvalidInput, donor.RestDays, input.Days)
	}

	if err := s.donationRepo.Create(ctx, req); err != nil {
		return donation.Request{}, fmt.Errorf("create donation: %w", err)
	}

	return req, nil
}

// TransitionDonation applies one approval-chain action. The guard runs again
// inside the repository lock, so two approvers racing on the same request
// cannot both land. The repository moves the rest-day balance in the same
// transaction that stores the approved status, so the request never ends up
// approved with the balance unmoved.
func (s *DonationService) TransitionDonation(ctx context.Context, leagueID, donationID string, principal user.Principal, action donation.Action) (donation.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DonationService.TransitionDonation")
	defer span.End()

	req, found, err := s.donationRepo.GetByID(ctx, leagueID, donationID)
	if err != nil {
		return donation.Request{}, fmt.Errorf("get donation: %w", err)
	}
	if !found {
		return donation.Request{}, fmt.Errorf("%w: donation=%s", ErrNotFound, donationID)
	}

	membership, err := s.roles.Resolve(ctx, leagueID, principal.UserID)
	if err != nil {
		return donation.Request{}, fmt.Errorf("resolve role: %w", err)
	}

	donor, found, err := s.rosterRepo.GetMember(ctx, leagueID, req.DonorID)
	if err != nil {
		return donation.Request{}, fmt.Errorf("get donor: %w", err)
	}
	if !found {
		return donation.Request{}, fmt.Errorf("%w: donor is no longer a member of this league", ErrForbidden)
	}

	now := s.now()
	updated, err := s.donationRepo.Transition(ctx, donationID, func(current donation.Request) (donation.Request, error) {
		next, err := donation.Transition(current, action, membership, donor.TeamID, now)
		if err != nil {
			var notAllowed donation.ErrNotAllowed
			if errors.As(err, &notAllowed) {
				return donation.Request{}, fmt.Errorf("%w: %v", ErrForbidden, err)
			}
			return donation.Request{}, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		return next, nil
	})
	if err != nil {
		return donation.Request{}, err
	}

	if updated.Status == donation.StatusApproved {
		s.logger.InfoContext(ctx, "donation approved and applied",
			"league_id", leagueID,
			"donation_id", updated.ID,
			"donor_id", updated.DonorID,
			"receiver_id", updated.ReceiverID,
			"days", updated.Days,
		)
	}

	return updated, nil
}

func (s *DonationService) ListDonations(ctx context.Context, leagueID string, principal user.Principal) ([]donation.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DonationService.ListDonations")
	defer span.End()

	membership, err := s.roles.Resolve(ctx, leagueID, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	items, err := s.donationRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	if membership.AtLeastGovernor() {
		return items, nil
	}

	// Players and captains see their own requests plus, for captains, their
	// team's pending queue.
	out := make([]donation.Request, 0, len(items))
	for _, item := range items {
		if item.DonorID == principal.UserID || item.ReceiverID == principal.UserID {
			out = append(out, item)
			continue
		}
		if membership.Role == user.RoleCaptain {
			donor, found, err := s.rosterRepo.GetMember(ctx, leagueID, item.DonorID)
			if err != nil {
				return nil, fmt.Errorf("get donor: %w", err)
			}
			if found && donor.TeamID == membership.TeamID {
				out = append(out, item)
			}
		}
	}

	return out, nil
}
