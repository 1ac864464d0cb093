package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/challenge"
)

type ChallengeRepository struct {
	mu          sync.RWMutex
	challenges  map[string]challenge.Challenge
	orders      []string
	submissions map[string]challenge.Submission
	subOrders   []string
	scores      map[string][]challenge.TeamScore
	matches     map[string][]challenge.Match
	bonuses     []challenge.TeamBonus
}

func NewChallengeRepository(challenges []challenge.Challenge, submissions []challenge.Submission, scores []challenge.TeamScore, matches []challenge.Match, bonuses []challenge.TeamBonus) *ChallengeRepository {
	r := &ChallengeRepository{
		challenges:  make(map[string]challenge.Challenge, len(challenges)),
		submissions: make(map[string]challenge.Submission, len(submissions)),
		scores:      make(map[string][]challenge.TeamScore),
		matches:     make(map[string][]challenge.Match),
		bonuses:     append([]challenge.TeamBonus(nil), bonuses...),
	}

	for _, ch := range challenges {
		r.challenges[ch.ID] = ch
		r.orders = append(r.orders, ch.ID)
	}
	for _, sub := range submissions {
		r.submissions[sub.ID] = sub
		r.subOrders = append(r.subOrders, sub.ID)
	}
	for _, score := range scores {
		r.scores[score.ChallengeID] = append(r.scores[score.ChallengeID], score)
	}
	for _, match := range matches {
		r.matches[match.ChallengeID] = append(r.matches[match.ChallengeID], match)
	}

	return r
}

func (r *ChallengeRepository) ListByLeague(_ context.Context, leagueID string) ([]challenge.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Challenge, 0, len(r.orders))
	for _, id := range r.orders {
		ch := r.challenges[id]
		if ch.LeagueID == leagueID {
			out = append(out, ch)
		}
	}

	return out, nil
}

func (r *ChallengeRepository) GetByID(_ context.Context, leagueID, challengeID string) (challenge.Challenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.challenges[challengeID]
	if !ok || ch.LeagueID != leagueID {
		return challenge.Challenge{}, false, nil
	}

	return ch, true, nil
}

func (r *ChallengeRepository) ListSubmissions(_ context.Context, challengeID string) ([]challenge.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Submission, 0, len(r.subOrders))
	for _, id := range r.subOrders {
		sub := r.submissions[id]
		if sub.ChallengeID == challengeID {
			out = append(out, sub)
		}
	}

	return out, nil
}

func (r *ChallengeRepository) ListSubmissionsByLeague(_ context.Context, leagueID string) ([]challenge.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Submission, 0, len(r.subOrders))
	for _, id := range r.subOrders {
		sub := r.submissions[id]
		ch, ok := r.challenges[sub.ChallengeID]
		if ok && ch.LeagueID == leagueID {
			out = append(out, sub)
		}
	}

	return out, nil
}

func (r *ChallengeRepository) ReviewSubmission(_ context.Context, challengeID, submissionID string, apply func(challenge.Challenge, challenge.Submission) (challenge.Submission, error)) (challenge.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[challengeID]
	if !ok {
		return challenge.Submission{}, fmt.Errorf("%w: challenge=%s", domain.ErrNotFound, challengeID)
	}
	sub, ok := r.submissions[submissionID]
	if !ok || sub.ChallengeID != challengeID {
		return challenge.Submission{}, fmt.Errorf("%w: submission=%s", domain.ErrNotFound, submissionID)
	}

	updated, err := apply(ch, sub)
	if err != nil {
		return challenge.Submission{}, err
	}

	r.submissions[submissionID] = updated
	return updated, nil
}

func (r *ChallengeRepository) Publish(_ context.Context, challengeID string, apply func(challenge.Challenge, int) (challenge.Challenge, error)) (challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[challengeID]
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", domain.ErrNotFound, challengeID)
	}

	pending := 0
	for _, id := range r.subOrders {
		sub := r.submissions[id]
		if sub.ChallengeID == challengeID && sub.Status == challenge.SubmissionPending {
			pending++
		}
	}

	updated, err := apply(ch, pending)
	if err != nil {
		return challenge.Challenge{}, err
	}

	r.challenges[challengeID] = updated
	return updated, nil
}

func (r *ChallengeRepository) Close(_ context.Context, challengeID string, apply func(challenge.Challenge) (challenge.Challenge, []challenge.TeamBonus, error)) (challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[challengeID]
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", domain.ErrNotFound, challengeID)
	}

	updated, bonuses, err := apply(ch)
	if err != nil {
		return challenge.Challenge{}, err
	}

	r.challenges[challengeID] = updated

	kept := make([]challenge.TeamBonus, 0, len(r.bonuses)+len(bonuses))
	for _, bonus := range r.bonuses {
		if bonus.ChallengeID != challengeID {
			kept = append(kept, bonus)
		}
	}
	r.bonuses = append(kept, bonuses...)

	return updated, nil
}

func (r *ChallengeRepository) ListTeamScores(_ context.Context, challengeID string) ([]challenge.TeamScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]challenge.TeamScore(nil), r.scores[challengeID]...), nil
}

func (r *ChallengeRepository) UpsertTeamScore(_ context.Context, score challenge.TeamScore, apply func(challenge.Challenge) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.challenges[score.ChallengeID]
	if !ok {
		return fmt.Errorf("%w: challenge=%s", domain.ErrNotFound, score.ChallengeID)
	}
	if err := apply(ch); err != nil {
		return err
	}

	rows := r.scores[score.ChallengeID]
	for i := range rows {
		if rows[i].TeamID == score.TeamID {
			rows[i] = score
			r.scores[score.ChallengeID] = rows
			return nil
		}
	}
	r.scores[score.ChallengeID] = append(rows, score)
	return nil
}

func (r *ChallengeRepository) ListMatches(_ context.Context, challengeID string) ([]challenge.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]challenge.Match(nil), r.matches[challengeID]...), nil
}

func (r *ChallengeRepository) ListTeamBonuses(_ context.Context, leagueID string) ([]challenge.TeamBonus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.TeamBonus, 0, len(r.bonuses))
	for _, bonus := range r.bonuses {
		if bonus.LeagueID == leagueID {
			out = append(out, bonus)
		}
	}

	return out, nil
}
