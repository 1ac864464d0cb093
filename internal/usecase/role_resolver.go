package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	"github.com/riskibarqy/effort-league/internal/domain/user"
)

// RoleResolver derives a user's authority inside a league from the league
// record and the roster. Resolution order is host, governor, captain, player.
type RoleResolver struct {
	leagueRepo league.Repository
	rosterRepo roster.Repository
}

func NewRoleResolver(leagueRepo league.Repository, rosterRepo roster.Repository) *RoleResolver {
	return &RoleResolver{
		leagueRepo: leagueRepo,
		rosterRepo: rosterRepo,
	}
}

func (r *RoleResolver) Resolve(ctx context.Context, leagueID, userID string) (user.Membership, error) {
	membership := user.Membership{UserID: userID, Role: user.RolePlayer}

	lg, found, err := r.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return user.Membership{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return membership, nil
	}

	member, isMember, err := r.rosterRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return user.Membership{}, fmt.Errorf("get member: %w", err)
	}
	if isMember {
		membership.Member = true
		membership.TeamID = member.TeamID
	}

	if userID == lg.HostID {
		membership.Role = user.RoleHost
		return membership, nil
	}
	if lg.IsGovernor(userID) {
		membership.Role = user.RoleGovernor
		return membership, nil
	}
	if !isMember {
		return membership, nil
	}

	snapshot, err := r.rosterRepo.Snapshot(ctx, leagueID)
	if err != nil {
		return user.Membership{}, fmt.Errorf("load roster: %w", err)
	}
	if team, ok := snapshot.Team(member.TeamID); ok && team.CaptainID == userID {
		membership.Role = user.RoleCaptain
	}

	return membership, nil
}
