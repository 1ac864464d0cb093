package roster

// Snapshot is an immutable view of a league's roster taken once per request.
// Every stage of an aggregation pass reads the same snapshot, so a member
// reassigned mid-request can never appear on two teams in one response.
type Snapshot struct {
	Teams    []Team
	SubTeams []SubTeam
	Members  []Member

	teamByID    map[string]Team
	subTeamByID map[string]SubTeam
	memberByID  map[string]Member
	teamSize    map[string]int
}

func NewSnapshot(teams []Team, subTeams []SubTeam, members []Member) Snapshot {
	s := Snapshot{
		Teams:       teams,
		SubTeams:    subTeams,
		Members:     members,
		teamByID:    make(map[string]Team, len(teams)),
		subTeamByID: make(map[string]SubTeam, len(subTeams)),
		memberByID:  make(map[string]Member, len(members)),
		teamSize:    make(map[string]int, len(teams)),
	}

	for _, team := range teams {
		s.teamByID[team.ID] = team
	}
	for _, subTeam := range subTeams {
		s.subTeamByID[subTeam.ID] = subTeam
	}
	for _, member := range members {
		s.memberByID[member.ID] = member
		if member.TeamID != "" {
			s.teamSize[member.TeamID]++
		}
	}

	return s
}

func (s Snapshot) Team(teamID string) (Team, bool) {
	team, ok := s.teamByID[teamID]
	return team, ok
}

func (s Snapshot) SubTeam(subTeamID string) (SubTeam, bool) {
	subTeam, ok := s.subTeamByID[subTeamID]
	return subTeam, ok
}

func (s Snapshot) Member(memberID string) (Member, bool) {
	member, ok := s.memberByID[memberID]
	return member, ok
}

// TeamSize is the count of members currently assigned to the team, used as the
// capping divisor for challenge point rollups. Never less than 1 for a team
// that exists, so division is always safe.
func (s Snapshot) TeamSize(teamID string) int {
	size := s.teamSize[teamID]
	if size < 1 {
		if _, ok := s.teamByID[teamID]; ok {
			return 1
		}
		return 0
	}
	return size
}

// TeamOfMember resolves a member's current team through the snapshot.
func (s Snapshot) TeamOfMember(memberID string) (Team, bool) {
	member, ok := s.memberByID[memberID]
	if !ok || member.TeamID == "" {
		return Team{}, false
	}
	return s.Team(member.TeamID)
}
