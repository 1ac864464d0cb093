package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	LeaguePublicID  string     `db:"league_public_id"`
	Name            string     `db:"name"`
	CaptainMemberID string     `db:"captain_member_id"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type subTeamTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	TeamPublicID string     `db:"team_public_id"`
	Name         string     `db:"name"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type memberTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	LeaguePublicID  string         `db:"league_public_id"`
	TeamPublicID    sql.NullString `db:"team_public_id"`
	SubTeamPublicID sql.NullString `db:"sub_team_public_id"`
	Name            string         `db:"name"`
	RestDays        int            `db:"rest_days"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}
