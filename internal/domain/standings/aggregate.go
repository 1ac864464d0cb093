package standings

import (
	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
)

// ActivityTotals holds per-team and per-member sums over settled, deduplicated
// approved effort entries. Every counted entry is one activity point; RR sums
// feed the avg_rr tie-break.
type ActivityTotals struct {
	TeamPoints   map[string]float64
	TeamRRSum    map[string]float64
	TeamEntries  map[string]int
	MemberPoints map[string]float64
	MemberRRSum  map[string]float64
	Entries      int
	Anomalies    Anomalies
}

// AggregateActivity folds counted effort entries into team and member buckets
// using the request's roster snapshot. An entry whose member has no current
// team still counts for the member but is flagged, never silently dropped
// from both boards and never aborts the pass.
func AggregateActivity(entries []effort.Entry, ros roster.Snapshot) ActivityTotals {
	totals := ActivityTotals{
		TeamPoints:   make(map[string]float64),
		TeamRRSum:    make(map[string]float64),
		TeamEntries:  make(map[string]int),
		MemberPoints: make(map[string]float64),
		MemberRRSum:  make(map[string]float64),
	}

	for _, entry := range entries {
		totals.Entries++
		totals.MemberPoints[entry.MemberID]++
		totals.MemberRRSum[entry.MemberID] += entry.RRValue

		team, ok := ros.TeamOfMember(entry.MemberID)
		if !ok {
			totals.Anomalies.MissingTeam++
			continue
		}
		totals.TeamPoints[team.ID]++
		totals.TeamRRSum[team.ID] += entry.RRValue
		totals.TeamEntries[team.ID]++
	}

	return totals
}

// ChallengeInput is everything the challenge aggregator consumes: the
// scoring-eligible challenges and their deduplicated approved submissions,
// plus manual scores and match results for tournament derivation.
type ChallengeInput struct {
	Challenges  []challenge.Challenge
	Submissions []challenge.Submission
	TeamScores  map[string][]challenge.TeamScore
	Matches     map[string][]challenge.Match
}

// ChallengeTotals is the aggregator output: challenge points fanned out into
// team and sub-team buckets, plus the member bucket backing the
// challenge-only individual board. Challenge points never feed the main
// individual standings.
type ChallengeTotals struct {
	TeamPoints    map[string]float64
	SubTeamPoints map[string]float64
	MemberPoints  map[string]float64
	Anomalies     Anomalies
}

// AggregateChallengePoints applies the per-type fan-out rules. Each single
// contribution to a team bucket is capped at total_points/team_size so a team
// challenge stays comparable regardless of roster size.
func AggregateChallengePoints(in ChallengeInput, ros roster.Snapshot) ChallengeTotals {
	totals := ChallengeTotals{
		TeamPoints:    make(map[string]float64),
		SubTeamPoints: make(map[string]float64),
		MemberPoints:  make(map[string]float64),
	}

	challengeByID := make(map[string]challenge.Challenge, len(in.Challenges))
	for _, ch := range in.Challenges {
		challengeByID[ch.ID] = ch
	}

	for _, sub := range in.Submissions {
		ch, ok := challengeByID[sub.ChallengeID]
		if !ok {
			totals.Anomalies.UnknownChallenge++
			continue
		}
		if ch.Type == challenge.TypeTournament {
			// Tournament points come from score/match tables, not submissions.
			continue
		}

		points := sub.Points()
		if points <= 0 {
			totals.Anomalies.NonPositivePoints++
			continue
		}

		switch ch.Type {
		case challenge.TypeTeam:
			if sub.TeamID == "" {
				totals.Anomalies.MissingTeam++
				continue
			}
			totals.addTeamContribution(sub.TeamID, points, ch.TotalPoints, ros)

		case challenge.TypeSubTeam:
			if sub.SubTeamID == "" {
				totals.Anomalies.MissingSubTeam++
			} else {
				totals.SubTeamPoints[sub.SubTeamID] += points
			}
			// Parent rollup goes through the submitting member's current team,
			// not the sub-team's nominal team: a member may submit before the
			// sub-team assignment is finalized.
			team, ok := ros.TeamOfMember(sub.MemberID)
			if !ok {
				totals.Anomalies.MissingTeam++
				continue
			}
			totals.addTeamContribution(team.ID, points, ch.TotalPoints, ros)

		case challenge.TypeIndividual:
			totals.MemberPoints[sub.MemberID] += points
			team, ok := ros.TeamOfMember(sub.MemberID)
			if !ok {
				totals.Anomalies.MissingTeam++
				continue
			}
			totals.addTeamContribution(team.ID, points, ch.TotalPoints, ros)
		}
	}

	for _, ch := range in.Challenges {
		if ch.Type != challenge.TypeTournament {
			continue
		}
		for teamID, points := range TournamentTeamTotals(in.TeamScores[ch.ID], in.Matches[ch.ID]) {
			if points == 0 {
				// An all-losses tournament total is a normal outcome, not bad data.
				continue
			}
			if points < 0 {
				totals.Anomalies.NonPositivePoints++
				continue
			}
			totals.addTeamContribution(teamID, points, ch.TotalPoints, ros)
		}
	}

	return totals
}

// addTeamContribution adds one capped contribution to a team bucket. The cap
// is per contribution, so a submission awarded more than the per-member share
// of the challenge still lands as total_points/team_size internally even
// though the reviewer-facing award is uncapped.
func (t *ChallengeTotals) addTeamContribution(teamID string, points, totalPoints float64, ros roster.Snapshot) {
	size := ros.TeamSize(teamID)
	if size == 0 {
		t.Anomalies.MissingTeam++
		return
	}

	contribution := points
	if totalPoints > 0 {
		if capped := totalPoints / float64(size); contribution > capped {
			contribution = capped
		}
	}

	t.TeamPoints[teamID] += contribution
}

// TournamentTeamTotals prefers manually entered team scores; when none exist
// it derives totals from completed match results with three points for a win
// and one each for a draw.
func TournamentTeamTotals(scores []challenge.TeamScore, matches []challenge.Match) map[string]float64 {
	totals := make(map[string]float64)

	if len(scores) > 0 {
		for _, score := range scores {
			totals[score.TeamID] += score.Score
		}
		return totals
	}

	for _, match := range matches {
		if !match.Completed {
			continue
		}
		switch {
		case match.HomeScore > match.AwayScore:
			totals[match.HomeTeamID] += 3
			totals[match.AwayTeamID] += 0
		case match.HomeScore < match.AwayScore:
			totals[match.AwayTeamID] += 3
			totals[match.HomeTeamID] += 0
		default:
			totals[match.HomeTeamID] += 1
			totals[match.AwayTeamID] += 1
		}
	}

	return totals
}

// SumTeamBonuses folds the legacy bonus rows into a per-team map. Closed
// challenges contribute through this table alone, so legacy and computed
// amounts coexist without double counting.
func SumTeamBonuses(bonuses []challenge.TeamBonus) map[string]float64 {
	totals := make(map[string]float64, len(bonuses))
	for _, bonus := range bonuses {
		if bonus.Points <= 0 {
			continue
		}
		totals[bonus.TeamID] += bonus.Points
	}
	return totals
}
