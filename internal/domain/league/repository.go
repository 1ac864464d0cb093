package league

import "context"

type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)

	// MarkCompleted moves an active league to completed. The write is guarded
	// inside the store: an already-completed league is left untouched and the
	// call reports false.
	MarkCompleted(ctx context.Context, leagueID string) (bool, error)
}
