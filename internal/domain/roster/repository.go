package roster

import "context"

type Repository interface {
	// Snapshot loads the league's full roster in one pass.
	Snapshot(ctx context.Context, leagueID string) (Snapshot, error)

	GetMember(ctx context.Context, leagueID, memberID string) (Member, bool, error)

	// TransferRestDays atomically moves days from donor to receiver. It fails
	// without any balance change when the donor holds fewer days than requested.
	TransferRestDays(ctx context.Context, donorID, receiverID string, days int) error
}
