package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
)

type DonationRepository struct {
	mu     sync.RWMutex
	roster roster.Repository
	items  map[string]donation.Request
	orders []string
}

// NewDonationRepository keeps requests in insertion order. rosterRepo receives
// the rest-day transfer when a transition lands the approved status.
func NewDonationRepository(requests []donation.Request, rosterRepo roster.Repository) *DonationRepository {
	items := make(map[string]donation.Request, len(requests))
	orders := make([]string, 0, len(requests))

	for _, req := range requests {
		items[req.ID] = req
		orders = append(orders, req.ID)
	}

	return &DonationRepository{
		roster: rosterRepo,
		items:  items,
		orders: orders,
	}
}

func (r *DonationRepository) Create(_ context.Context, req donation.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[req.ID]; exists {
		return fmt.Errorf("donation %s already exists", req.ID)
	}

	r.items[req.ID] = req
	r.orders = append(r.orders, req.ID)
	return nil
}

func (r *DonationRepository) GetByID(_ context.Context, leagueID, donationID string) (donation.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[donationID]
	if !ok || req.LeagueID != leagueID {
		return donation.Request{}, false, nil
	}

	return req, true, nil
}

func (r *DonationRepository) ListByLeague(_ context.Context, leagueID string) ([]donation.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]donation.Request, 0, len(r.orders))
	for _, id := range r.orders {
		req := r.items[id]
		if req.LeagueID == leagueID {
			out = append(out, req)
		}
	}

	return out, nil
}

func (r *DonationRepository) Transition(ctx context.Context, donationID string, apply func(donation.Request) (donation.Request, error)) (donation.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.items[donationID]
	if !ok {
		return donation.Request{}, fmt.Errorf("%w: donation=%s", domain.ErrNotFound, donationID)
	}

	updated, err := apply(req)
	if err != nil {
		return donation.Request{}, err
	}

	// The transfer runs before the status is stored, so a failed transfer
	// leaves the request where apply found it.
	if updated.Status == donation.StatusApproved {
		if err := r.roster.TransferRestDays(ctx, updated.DonorID, updated.ReceiverID, updated.Days); err != nil {
			return donation.Request{}, err
		}
	}

	r.items[donationID] = updated
	return updated, nil
}
