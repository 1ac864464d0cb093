package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
)

type challengeTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	LeaguePublicID string         `db:"league_public_id"`
	Name           string         `db:"name"`
	Type           string         `db:"type"`
	TotalPoints    float64        `db:"total_points"`
	Status         string         `db:"status"`
	StartDate      sql.NullTime   `db:"start_date"`
	EndDate        sql.NullTime   `db:"end_date"`
	PricingRef     sql.NullString `db:"pricing_ref"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type submissionTableModel struct {
	ID                int64           `db:"id"`
	PublicID          string          `db:"public_id"`
	ChallengePublicID string          `db:"challenge_public_id"`
	MemberPublicID    sql.NullString  `db:"member_public_id"`
	TeamPublicID      sql.NullString  `db:"team_public_id"`
	SubTeamPublicID   sql.NullString  `db:"sub_team_public_id"`
	Status            string          `db:"status"`
	AwardedPoints     sql.NullFloat64 `db:"awarded_points"`
	CreatedAt         time.Time       `db:"created_at"`
	ReviewedAt        sql.NullTime    `db:"reviewed_at"`
	ReviewedBy        sql.NullString  `db:"reviewed_by"`
	UpdatedAt         time.Time       `db:"updated_at"`
	DeletedAt         *time.Time      `db:"deleted_at"`
}

type teamScoreTableModel struct {
	ID                int64     `db:"id"`
	ChallengePublicID string    `db:"challenge_public_id"`
	TeamPublicID      string    `db:"team_public_id"`
	Score             float64   `db:"score"`
	AssignedBy        string    `db:"assigned_by"`
	AssignedAt        time.Time `db:"assigned_at"`
}

type matchTableModel struct {
	ID                int64      `db:"id"`
	PublicID          string     `db:"public_id"`
	ChallengePublicID string     `db:"challenge_public_id"`
	HomeTeamPublicID  string     `db:"home_team_public_id"`
	AwayTeamPublicID  string     `db:"away_team_public_id"`
	HomeScore         int        `db:"home_score"`
	AwayScore         int        `db:"away_score"`
	Completed         bool       `db:"completed"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type teamBonusTableModel struct {
	ID                int64     `db:"id"`
	LeaguePublicID    string    `db:"league_public_id"`
	ChallengePublicID string    `db:"challenge_public_id"`
	TeamPublicID      string    `db:"team_public_id"`
	Points            float64   `db:"points"`
	CreatedAt         time.Time `db:"created_at"`
}

func challengeFromRow(row challengeTableModel) challenge.Challenge {
	return challenge.Challenge{
		ID:          row.PublicID,
		LeagueID:    row.LeaguePublicID,
		Name:        row.Name,
		Type:        challenge.Type(row.Type),
		TotalPoints: row.TotalPoints,
		Status:      challenge.Status(row.Status),
		StartDate:   nullTimeToPtr(row.StartDate),
		EndDate:     nullTimeToPtr(row.EndDate),
		PricingRef:  nullStringToString(row.PricingRef),
	}
}

func submissionFromRow(row submissionTableModel) challenge.Submission {
	return challenge.Submission{
		ID:            row.PublicID,
		ChallengeID:   row.ChallengePublicID,
		MemberID:      nullStringToString(row.MemberPublicID),
		TeamID:        nullStringToString(row.TeamPublicID),
		SubTeamID:     nullStringToString(row.SubTeamPublicID),
		Status:        challenge.SubmissionStatus(row.Status),
		AwardedPoints: nullFloatToPtr(row.AwardedPoints),
		CreatedAt:     row.CreatedAt,
		ReviewedAt:    nullTimeToPtr(row.ReviewedAt),
		ReviewedBy:    nullStringToString(row.ReviewedBy),
	}
}
