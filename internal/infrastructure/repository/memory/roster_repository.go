package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/effort-league/internal/domain"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
)

type RosterRepository struct {
	mu       sync.RWMutex
	teams    []roster.Team
	subTeams []roster.SubTeam
	members  map[string]roster.Member
	orders   []string
}

func NewRosterRepository(teams []roster.Team, subTeams []roster.SubTeam, members []roster.Member) *RosterRepository {
	byID := make(map[string]roster.Member, len(members))
	orders := make([]string, 0, len(members))

	for _, m := range members {
		byID[m.ID] = m
		orders = append(orders, m.ID)
	}

	return &RosterRepository{
		teams:    teams,
		subTeams: subTeams,
		members:  byID,
		orders:   orders,
	}
}

func (r *RosterRepository) Snapshot(_ context.Context, leagueID string) (roster.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]roster.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if t.LeagueID == leagueID {
			teams = append(teams, t)
		}
	}

	teamIDs := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		teamIDs[t.ID] = struct{}{}
	}

	subTeams := make([]roster.SubTeam, 0, len(r.subTeams))
	for _, st := range r.subTeams {
		if _, ok := teamIDs[st.TeamID]; ok {
			subTeams = append(subTeams, st)
		}
	}

	members := make([]roster.Member, 0, len(r.orders))
	for _, id := range r.orders {
		m := r.members[id]
		if m.LeagueID == leagueID {
			members = append(members, m)
		}
	}

	return roster.NewSnapshot(teams, subTeams, members), nil
}

func (r *RosterRepository) GetMember(_ context.Context, leagueID, memberID string) (roster.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[memberID]
	if !ok || m.LeagueID != leagueID {
		return roster.Member{}, false, nil
	}

	return m, true, nil
}

func (r *RosterRepository) TransferRestDays(_ context.Context, donorID, receiverID string, days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	donor, ok := r.members[donorID]
	if !ok {
		return fmt.Errorf("%w: member=%s", domain.ErrNotFound, donorID)
	}
	receiver, ok := r.members[receiverID]
	if !ok {
		return fmt.Errorf("%w: member=%s", domain.ErrNotFound, receiverID)
	}
	if donor.RestDays < days {
		return fmt.Errorf("%w: donor holds %d rest days, cannot transfer %d", domain.ErrInvalidTransition, donor.RestDays, days)
	}

	donor.RestDays -= days
	receiver.RestDays += days
	r.members[donorID] = donor
	r.members[receiverID] = receiver
	return nil
}
