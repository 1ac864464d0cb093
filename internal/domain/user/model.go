package user

import "context"

// Principal is the authenticated actor attached to a request.
type Principal struct {
	UserID string
	Name   string
}

// Role is an actor's authority level within one league.
type Role string

const (
	RoleHost     Role = "host"
	RoleGovernor Role = "governor"
	RoleCaptain  Role = "captain"
	RolePlayer   Role = "player"
)

// Membership describes what an actor is inside a league.
type Membership struct {
	UserID string
	Role   Role
	TeamID string
	Member bool
}

// AtLeastCaptain reports whether the role carries captain-level authority or above.
func (m Membership) AtLeastCaptain() bool {
	switch m.Role {
	case RoleHost, RoleGovernor, RoleCaptain:
		return true
	default:
		return false
	}
}

// AtLeastGovernor reports whether the role may act on behalf of the league itself.
func (m Membership) AtLeastGovernor() bool {
	return m.Role == RoleHost || m.Role == RoleGovernor
}

// RoleResolver answers "what is this user inside this league".
// Resolution order is host, governor, captain, player.
type RoleResolver interface {
	Resolve(ctx context.Context, leagueID, userID string) (Membership, error)
}
