package postgres

import "time"

type effortEntryTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	LeaguePublicID string     `db:"league_public_id"`
	MemberPublicID string     `db:"member_public_id"`
	EntryDate      time.Time  `db:"entry_date"`
	Kind           string     `db:"kind"`
	RRValue        float64    `db:"rr_value"`
	Status         string     `db:"status"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
