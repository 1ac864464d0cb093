package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/donation"
)

type donationTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	LeaguePublicID   string         `db:"league_public_id"`
	DonorPublicID    string         `db:"donor_public_id"`
	ReceiverPublicID string         `db:"receiver_public_id"`
	Days             int            `db:"days"`
	Status           string         `db:"status"`
	ProofRef         sql.NullString `db:"proof_ref"`
	CreatedAt        time.Time      `db:"created_at"`
	DecidedAt        sql.NullTime   `db:"decided_at"`
	DecidedBy        sql.NullString `db:"decided_by"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

func donationFromRow(row donationTableModel) donation.Request {
	return donation.Request{
		ID:         row.PublicID,
		LeagueID:   row.LeaguePublicID,
		DonorID:    row.DonorPublicID,
		ReceiverID: row.ReceiverPublicID,
		Days:       row.Days,
		Status:     donation.Status(row.Status),
		ProofRef:   nullStringToString(row.ProofRef),
		CreatedAt:  row.CreatedAt,
		DecidedAt:  nullTimeToPtr(row.DecidedAt),
		DecidedBy:  nullStringToString(row.DecidedBy),
	}
}
