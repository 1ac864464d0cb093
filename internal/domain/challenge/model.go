package challenge

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeIndividual Type = "individual"
	TypeTeam       Type = "team"
	TypeSubTeam    Type = "sub_team"
	TypeTournament Type = "tournament"
)

func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeIndividual, TypeTeam, TypeSubTeam, TypeTournament:
		return Type(raw), nil
	default:
		return "", fmt.Errorf("challenge type %q is not valid", raw)
	}
}

// Challenge is a bonus competition layered on top of daily effort tracking.
// TotalPoints is the scoring cap a single submission may be awarded, and the
// numerator of the per-team internal cap.
type Challenge struct {
	ID          string
	LeagueID    string
	Name        string
	Type        Type
	TotalPoints float64
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	PricingRef  string
}

func (c Challenge) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("challenge id is required")
	}
	if c.LeagueID == "" {
		return fmt.Errorf("challenge league id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("challenge name is required")
	}
	if _, err := ParseType(string(c.Type)); err != nil {
		return err
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("challenge status %q is not valid", c.Status)
	}
	if c.TotalPoints < 0 {
		return fmt.Errorf("challenge total points cannot be negative")
	}

	return nil
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is one member's (or team's) entry into a challenge.
// AwardedPoints is only meaningful while Status is approved; a rejection
// clears it.
type Submission struct {
	ID            string
	ChallengeID   string
	MemberID      string
	TeamID        string
	SubTeamID     string
	Status        SubmissionStatus
	AwardedPoints *float64
	CreatedAt     time.Time
	ReviewedAt    *time.Time
	ReviewedBy    string
}

// Points returns the awarded points for an approved submission, zero otherwise.
func (s Submission) Points() float64 {
	if s.Status != SubmissionApproved || s.AwardedPoints == nil {
		return 0
	}
	return *s.AwardedPoints
}

// SubmissionStats are per-challenge review counters shown to privileged roles.
type SubmissionStats struct {
	Pending  int
	Approved int
	Rejected int
}

// TeamScore is a manually assigned team result for team and tournament
// challenges. For tournaments it takes precedence over derived match results.
type TeamScore struct {
	ChallengeID string
	TeamID      string
	Score       float64
	AssignedBy  string
	AssignedAt  time.Time
}

// Match is one completed tournament fixture between two teams.
type Match struct {
	ID          string
	ChallengeID string
	HomeTeamID  string
	AwayTeamID  string
	HomeScore   int
	AwayScore   int
	Completed   bool
}

// TeamBonus is one row of the legacy bonus table. Closed challenges are folded
// into this table and from then on contribute through it alone.
type TeamBonus struct {
	LeagueID    string
	ChallengeID string
	TeamID      string
	Points      float64
}
