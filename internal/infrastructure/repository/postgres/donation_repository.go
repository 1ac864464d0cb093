package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/donation"
	qb "github.com/riskibarqy/effort-league/internal/platform/querybuilder"
)

type DonationRepository struct {
	db *sqlx.DB
}

func NewDonationRepository(db *sqlx.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(ctx context.Context, req donation.Request) error {
	const query = `
INSERT INTO rest_day_donations (public_id, league_public_id, donor_public_id, receiver_public_id, days, status, proof_ref, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`

	if _, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.LeagueID,
		req.DonorID,
		req.ReceiverID,
		req.Days,
		string(req.Status),
		req.ProofRef,
		req.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}

	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, leagueID, donationID string) (donation.Request, bool, error) {
	query, args, err := qb.Select("*").From("rest_day_donations").
		Where(
			qb.Eq("public_id", donationID),
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return donation.Request{}, false, fmt.Errorf("build get donation query: %w", err)
	}

	var row donationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return donation.Request{}, false, nil
		}
		return donation.Request{}, false, fmt.Errorf("get donation: %w", err)
	}

	return donationFromRow(row), true, nil
}

func (r *DonationRepository) ListByLeague(ctx context.Context, leagueID string) ([]donation.Request, error) {
	query, args, err := qb.Select("*").From("rest_day_donations").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select donations query: %w", err)
	}

	var rows []donationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select donations: %w", err)
	}

	out := make([]donation.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, donationFromRow(row))
	}

	return out, nil
}

func (r *DonationRepository) Transition(ctx context.Context, donationID string, apply func(donation.Request) (donation.Request, error)) (donation.Request, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return donation.Request{}, fmt.Errorf("begin tx for donation transition: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `
SELECT *
FROM rest_day_donations
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`

	var row donationTableModel
	if err := tx.GetContext(ctx, &row, lockQuery, donationID); err != nil {
		if isNotFound(err) {
			return donation.Request{}, fmt.Errorf("%w: donation=%s", domain.ErrNotFound, donationID)
		}
		return donation.Request{}, fmt.Errorf("lock donation: %w", err)
	}

	updated, err := apply(donationFromRow(row))
	if err != nil {
		return donation.Request{}, err
	}

	const updateQuery = `
UPDATE rest_day_donations
SET status = $1, decided_at = $2, decided_by = NULLIF($3, ''), updated_at = NOW()
WHERE public_id = $4`
	if _, err := tx.ExecContext(ctx, updateQuery,
		string(updated.Status),
		ptrToNullTime(updated.DecidedAt),
		updated.DecidedBy,
		donationID,
	); err != nil {
		return donation.Request{}, fmt.Errorf("update donation: %w", err)
	}

	// The balance moves in the same transaction as the approval, so a failed
	// transfer rolls the status change back with it.
	if updated.Status == donation.StatusApproved {
		if err := transferRestDaysTx(ctx, tx, updated.DonorID, updated.ReceiverID, updated.Days); err != nil {
			return donation.Request{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return donation.Request{}, fmt.Errorf("commit donation transition: %w", err)
	}

	return updated, nil
}
