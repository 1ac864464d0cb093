package challenge

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Challenge, error)
	GetByID(ctx context.Context, leagueID, challengeID string) (Challenge, bool, error)

	ListSubmissions(ctx context.Context, challengeID string) ([]Submission, error)
	ListSubmissionsByLeague(ctx context.Context, leagueID string) ([]Submission, error)

	// ReviewSubmission re-reads the challenge and submission under a write lock
	// and applies the decision returned by apply. The gate check runs inside
	// the same transaction as the write so a publish or a competing review
	// cannot slip in between check and commit.
	ReviewSubmission(ctx context.Context, challengeID, submissionID string, apply func(Challenge, Submission) (Submission, error)) (Submission, error)

	// Publish re-reads the challenge and its pending-submission count under a
	// write lock and applies the transition returned by apply.
	Publish(ctx context.Context, challengeID string, apply func(Challenge, int) (Challenge, error)) (Challenge, error)

	// Close re-reads the challenge under a write lock, applies the transition
	// returned by apply, and replaces the challenge's legacy bonus rows with
	// the given set in the same transaction. Recomputing and overwriting from
	// scratch keeps the fold idempotent.
	Close(ctx context.Context, challengeID string, apply func(Challenge) (Challenge, []TeamBonus, error)) (Challenge, error)

	ListTeamScores(ctx context.Context, challengeID string) ([]TeamScore, error)
	// UpsertTeamScore writes a manual team score after apply approves it against
	// the locked challenge row.
	UpsertTeamScore(ctx context.Context, score TeamScore, apply func(Challenge) error) error

	ListMatches(ctx context.Context, challengeID string) ([]Match, error)

	// ListTeamBonuses returns the legacy bonus rows for a league, the finalized
	// side of the challenge bonus ledger.
	ListTeamBonuses(ctx context.Context, leagueID string) ([]TeamBonus, error)
}
