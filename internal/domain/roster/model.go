package roster

import "fmt"

// Team is a scoring unit inside one league.
type Team struct {
	ID        string
	LeagueID  string
	Name      string
	CaptainID string
}

// SubTeam is a named squad inside exactly one team.
type SubTeam struct {
	ID     string
	TeamID string
	Name   string
}

// Member is a league participant. A member belongs to at most one team and
// optionally one sub-team of that team.
type Member struct {
	ID        string
	LeagueID  string
	TeamID    string
	SubTeamID string
	Name      string
	RestDays  int
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (m Member) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("member id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("member league id is required")
	}

	return nil
}
