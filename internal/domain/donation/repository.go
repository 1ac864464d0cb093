package donation

import "context"

type Repository interface {
	Create(ctx context.Context, req Request) error
	GetByID(ctx context.Context, leagueID, donationID string) (Request, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Request, error)

	// Transition re-reads the request under a write lock and applies the
	// outcome returned by apply, so two approvers racing on one donation
	// cannot both succeed. When apply lands the approved status, the repo
	// moves the rest-day balance in the same transaction: either the status
	// change and the transfer both commit, or neither does.
	Transition(ctx context.Context, donationID string, apply func(Request) (Request, error)) (Request, error)
}
