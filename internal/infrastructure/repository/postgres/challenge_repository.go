package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	qb "github.com/riskibarqy/effort-league/internal/platform/querybuilder"
)

type ChallengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) ListByLeague(ctx context.Context, leagueID string) ([]challenge.Challenge, error) {
	query, args, err := qb.Select("*").From("challenges").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select challenges query: %w", err)
	}

	var rows []challengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select challenges: %w", err)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, challengeFromRow(row))
	}

	return out, nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, leagueID, challengeID string) (challenge.Challenge, bool, error) {
	query, args, err := qb.Select("*").From("challenges").
		Where(
			qb.Eq("public_id", challengeID),
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return challenge.Challenge{}, false, fmt.Errorf("build get challenge query: %w", err)
	}

	var row challengeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return challenge.Challenge{}, false, nil
		}
		return challenge.Challenge{}, false, fmt.Errorf("get challenge: %w", err)
	}

	return challengeFromRow(row), true, nil
}

func (r *ChallengeRepository) ListSubmissions(ctx context.Context, challengeID string) ([]challenge.Submission, error) {
	query, args, err := qb.Select("*").From("challenge_submissions").
		Where(
			qb.Eq("challenge_public_id", challengeID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}

	out := make([]challenge.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, submissionFromRow(row))
	}

	return out, nil
}

func (r *ChallengeRepository) ListSubmissionsByLeague(ctx context.Context, leagueID string) ([]challenge.Submission, error) {
	const query = `
SELECT s.*
FROM challenge_submissions s
JOIN challenges c ON c.public_id = s.challenge_public_id AND c.deleted_at IS NULL
WHERE c.league_public_id = $1
  AND s.deleted_at IS NULL
ORDER BY s.id`

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("select submissions by league: %w", err)
	}

	out := make([]challenge.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, submissionFromRow(row))
	}

	return out, nil
}

func (r *ChallengeRepository) ReviewSubmission(ctx context.Context, challengeID, submissionID string, apply func(challenge.Challenge, challenge.Submission) (challenge.Submission, error)) (challenge.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return challenge.Submission{}, fmt.Errorf("begin tx for submission review: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ch, err := lockChallenge(ctx, tx, challengeID)
	if err != nil {
		return challenge.Submission{}, err
	}

	const subQuery = `
SELECT *
FROM challenge_submissions
WHERE public_id = $1
  AND challenge_public_id = $2
  AND deleted_at IS NULL
FOR UPDATE`

	var subRow submissionTableModel
	if err := tx.GetContext(ctx, &subRow, subQuery, submissionID, challengeID); err != nil {
		if isNotFound(err) {
			return challenge.Submission{}, fmt.Errorf("%w: submission=%s", domain.ErrNotFound, submissionID)
		}
		return challenge.Submission{}, fmt.Errorf("lock submission: %w", err)
	}

	updated, err := apply(ch, submissionFromRow(subRow))
	if err != nil {
		return challenge.Submission{}, err
	}

	const updateQuery = `
UPDATE challenge_submissions
SET status = $1, awarded_points = $2, reviewed_at = $3, reviewed_by = $4, updated_at = NOW()
WHERE public_id = $5`
	if _, err := tx.ExecContext(ctx, updateQuery,
		string(updated.Status),
		ptrToNullFloat(updated.AwardedPoints),
		ptrToNullTime(updated.ReviewedAt),
		updated.ReviewedBy,
		submissionID,
	); err != nil {
		return challenge.Submission{}, fmt.Errorf("update submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return challenge.Submission{}, fmt.Errorf("commit submission review: %w", err)
	}

	return updated, nil
}

func (r *ChallengeRepository) Publish(ctx context.Context, challengeID string, apply func(challenge.Challenge, int) (challenge.Challenge, error)) (challenge.Challenge, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("begin tx for challenge publish: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ch, err := lockChallenge(ctx, tx, challengeID)
	if err != nil {
		return challenge.Challenge{}, err
	}

	const pendingQuery = `
SELECT COUNT(*)
FROM challenge_submissions
WHERE challenge_public_id = $1
  AND status = $2
  AND deleted_at IS NULL`

	var pending int
	if err := tx.GetContext(ctx, &pending, pendingQuery, challengeID, string(challenge.SubmissionPending)); err != nil {
		return challenge.Challenge{}, fmt.Errorf("count pending submissions: %w", err)
	}

	updated, err := apply(ch, pending)
	if err != nil {
		return challenge.Challenge{}, err
	}

	if err := updateChallengeStatus(ctx, tx, updated); err != nil {
		return challenge.Challenge{}, err
	}

	if err := tx.Commit(); err != nil {
		return challenge.Challenge{}, fmt.Errorf("commit challenge publish: %w", err)
	}

	return updated, nil
}

func (r *ChallengeRepository) Close(ctx context.Context, challengeID string, apply func(challenge.Challenge) (challenge.Challenge, []challenge.TeamBonus, error)) (challenge.Challenge, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("begin tx for challenge close: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ch, err := lockChallenge(ctx, tx, challengeID)
	if err != nil {
		return challenge.Challenge{}, err
	}

	updated, bonuses, err := apply(ch)
	if err != nil {
		return challenge.Challenge{}, err
	}

	if err := updateChallengeStatus(ctx, tx, updated); err != nil {
		return challenge.Challenge{}, err
	}

	// The bonus rows are rewritten wholesale so re-running the fold for a
	// challenge can never leave stale rows behind.
	const deleteQuery = `DELETE FROM team_bonuses WHERE challenge_public_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, challengeID); err != nil {
		return challenge.Challenge{}, fmt.Errorf("delete team bonuses: %w", err)
	}

	const insertQuery = `
INSERT INTO team_bonuses (league_public_id, challenge_public_id, team_public_id, points)
VALUES ($1, $2, $3, $4)`
	for _, bonus := range bonuses {
		if _, err := tx.ExecContext(ctx, insertQuery, bonus.LeagueID, bonus.ChallengeID, bonus.TeamID, bonus.Points); err != nil {
			return challenge.Challenge{}, fmt.Errorf("insert team bonus: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return challenge.Challenge{}, fmt.Errorf("commit challenge close: %w", err)
	}

	return updated, nil
}

func (r *ChallengeRepository) ListTeamScores(ctx context.Context, challengeID string) ([]challenge.TeamScore, error) {
	query, args, err := qb.Select("*").From("challenge_team_scores").
		Where(qb.Eq("challenge_public_id", challengeID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team scores query: %w", err)
	}

	var rows []teamScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team scores: %w", err)
	}

	out := make([]challenge.TeamScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, challenge.TeamScore{
			ChallengeID: row.ChallengePublicID,
			TeamID:      row.TeamPublicID,
			Score:       row.Score,
			AssignedBy:  row.AssignedBy,
			AssignedAt:  row.AssignedAt,
		})
	}

	return out, nil
}

func (r *ChallengeRepository) UpsertTeamScore(ctx context.Context, score challenge.TeamScore, apply func(challenge.Challenge) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team score upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ch, err := lockChallenge(ctx, tx, score.ChallengeID)
	if err != nil {
		return err
	}
	if err := apply(ch); err != nil {
		return err
	}

	const upsertQuery = `
INSERT INTO challenge_team_scores (challenge_public_id, team_public_id, score, assigned_by, assigned_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (challenge_public_id, team_public_id)
DO UPDATE SET
    score = EXCLUDED.score,
    assigned_by = EXCLUDED.assigned_by,
    assigned_at = EXCLUDED.assigned_at`
	if _, err := tx.ExecContext(ctx, upsertQuery, score.ChallengeID, score.TeamID, score.Score, score.AssignedBy, score.AssignedAt); err != nil {
		return fmt.Errorf("upsert team score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team score upsert: %w", err)
	}

	return nil
}

func (r *ChallengeRepository) ListMatches(ctx context.Context, challengeID string) ([]challenge.Match, error) {
	query, args, err := qb.Select("*").From("challenge_matches").
		Where(
			qb.Eq("challenge_public_id", challengeID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]challenge.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, challenge.Match{
			ID:          row.PublicID,
			ChallengeID: row.ChallengePublicID,
			HomeTeamID:  row.HomeTeamPublicID,
			AwayTeamID:  row.AwayTeamPublicID,
			HomeScore:   row.HomeScore,
			AwayScore:   row.AwayScore,
			Completed:   row.Completed,
		})
	}

	return out, nil
}

func (r *ChallengeRepository) ListTeamBonuses(ctx context.Context, leagueID string) ([]challenge.TeamBonus, error) {
	query, args, err := qb.Select("*").From("team_bonuses").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team bonuses query: %w", err)
	}

	var rows []teamBonusTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team bonuses: %w", err)
	}

	out := make([]challenge.TeamBonus, 0, len(rows))
	for _, row := range rows {
		out = append(out, challenge.TeamBonus{
			LeagueID:    row.LeaguePublicID,
			ChallengeID: row.ChallengePublicID,
			TeamID:      row.TeamPublicID,
			Points:      row.Points,
		})
	}

	return out, nil
}

func lockChallenge(ctx context.Context, tx *sqlx.Tx, challengeID string) (challenge.Challenge, error) {
	const query = `
SELECT *
FROM challenges
WHERE public_id = $1
  AND deleted_at IS NULL
FOR UPDATE`

	var row challengeTableModel
	if err := tx.GetContext(ctx, &row, query, challengeID); err != nil {
		if err == sql.ErrNoRows {
			return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", domain.ErrNotFound, challengeID)
		}
		return challenge.Challenge{}, fmt.Errorf("lock challenge: %w", err)
	}

	return challengeFromRow(row), nil
}

func updateChallengeStatus(ctx context.Context, tx *sqlx.Tx, ch challenge.Challenge) error {
	const query = `
UPDATE challenges
SET status = $1, updated_at = NOW()
WHERE public_id = $2`
	if _, err := tx.ExecContext(ctx, query, string(ch.Status), ch.ID); err != nil {
		return fmt.Errorf("update challenge status: %w", err)
	}

	return nil
}
