package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	qb "github.com/riskibarqy/effort-league/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Snapshot(ctx context.Context, leagueID string) (roster.Snapshot, error) {
	teamsQuery, teamsArgs, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return roster.Snapshot{}, fmt.Errorf("build select teams query: %w", err)
	}

	var teamRows []teamTableModel
	if err := r.db.SelectContext(ctx, &teamRows, teamsQuery, teamsArgs...); err != nil {
		return roster.Snapshot{}, fmt.Errorf("select teams: %w", err)
	}

	teams := make([]roster.Team, 0, len(teamRows))
	for _, row := range teamRows {
		teams = append(teams, roster.Team{
			ID:        row.PublicID,
			LeagueID:  row.LeaguePublicID,
			Name:      row.Name,
			CaptainID: row.CaptainMemberID,
		})
	}

	const subTeamsQuery = `
SELECT st.*
FROM sub_teams st
JOIN teams t ON t.public_id = st.team_public_id AND t.deleted_at IS NULL
WHERE t.league_public_id = $1
  AND st.deleted_at IS NULL
ORDER BY st.id`

	var subTeamRows []subTeamTableModel
	if err := r.db.SelectContext(ctx, &subTeamRows, subTeamsQuery, leagueID); err != nil {
		return roster.Snapshot{}, fmt.Errorf("select sub teams: %w", err)
	}

	subTeams := make([]roster.SubTeam, 0, len(subTeamRows))
	for _, row := range subTeamRows {
		subTeams = append(subTeams, roster.SubTeam{
			ID:     row.PublicID,
			TeamID: row.TeamPublicID,
			Name:   row.Name,
		})
	}

	membersQuery, membersArgs, err := qb.Select("*").From("members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return roster.Snapshot{}, fmt.Errorf("build select members query: %w", err)
	}

	var memberRows []memberTableModel
	if err := r.db.SelectContext(ctx, &memberRows, membersQuery, membersArgs...); err != nil {
		return roster.Snapshot{}, fmt.Errorf("select members: %w", err)
	}

	members := make([]roster.Member, 0, len(memberRows))
	for _, row := range memberRows {
		members = append(members, memberFromRow(row))
	}

	return roster.NewSnapshot(teams, subTeams, members), nil
}

func (r *RosterRepository) GetMember(ctx context.Context, leagueID, memberID string) (roster.Member, bool, error) {
	query, args, err := qb.Select("*").From("members").
		Where(
			qb.Eq("public_id", memberID),
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Member{}, false, fmt.Errorf("build get member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Member{}, false, nil
		}
		return roster.Member{}, false, fmt.Errorf("get member: %w", err)
	}

	return memberFromRow(row), true, nil
}

func (r *RosterRepository) TransferRestDays(ctx context.Context, donorID, receiverID string, days int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for rest day transfer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := transferRestDaysTx(ctx, tx, donorID, receiverID, days); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rest day transfer: %w", err)
	}

	return nil
}

// transferRestDaysTx moves days from donor to receiver inside the caller's
// transaction. The balance check runs against the locked rows, so an overdraw
// rolls back with whatever else the transaction carries.
func transferRestDaysTx(ctx context.Context, tx *sqlx.Tx, donorID, receiverID string, days int) error {
	// Both rows lock in public_id order so two opposing transfers cannot
	// deadlock each other.
	const lockQuery = `
SELECT public_id, rest_days
FROM members
WHERE public_id = ANY($1)
  AND deleted_at IS NULL
ORDER BY public_id
FOR UPDATE`

	var lockedRows []struct {
		PublicID string `db:"public_id"`
		RestDays int    `db:"rest_days"`
	}
	if err := tx.SelectContext(ctx, &lockedRows, lockQuery, pq.Array([]string{donorID, receiverID})); err != nil {
		return fmt.Errorf("lock members for rest day transfer: %w", err)
	}

	balances := make(map[string]int, len(lockedRows))
	for _, row := range lockedRows {
		balances[row.PublicID] = row.RestDays
	}
	donorBalance, donorFound := balances[donorID]
	if !donorFound {
		return fmt.Errorf("%w: member=%s", domain.ErrNotFound, donorID)
	}
	if _, receiverFound := balances[receiverID]; !receiverFound {
		return fmt.Errorf("%w: member=%s", domain.ErrNotFound, receiverID)
	}
	if donorBalance < days {
		return fmt.Errorf("%w: donor holds %d rest days, cannot transfer %d", domain.ErrInvalidTransition, donorBalance, days)
	}

	const debitQuery = `
UPDATE members SET rest_days = rest_days - $1, updated_at = NOW()
WHERE public_id = $2 AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, debitQuery, days, donorID); err != nil {
		return fmt.Errorf("debit donor rest days: %w", err)
	}

	const creditQuery = `
UPDATE members SET rest_days = rest_days + $1, updated_at = NOW()
WHERE public_id = $2 AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, creditQuery, days, receiverID); err != nil {
		return fmt.Errorf("credit receiver rest days: %w", err)
	}

	return nil
}

func memberFromRow(row memberTableModel) roster.Member {
	return roster.Member{
		ID:        row.PublicID,
		LeagueID:  row.LeaguePublicID,
		TeamID:    nullStringToString(row.TeamPublicID),
		SubTeamID: nullStringToString(row.SubTeamPublicID),
		Name:      row.Name,
		RestDays:  row.RestDays,
	}
}
