package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/user"
)

func TestRoleResolver_ResolutionOrder(t *testing.T) {
	t.Parallel()

	leagueRepo := newStubLeagueRepo(testLeague(league.StatusActive))
	rosterRepo := &stubRosterRepo{snapshot: testRoster()}
	resolver := NewRoleResolver(leagueRepo, rosterRepo)

	cases := []struct {
		name       string
		userID     string
		wantRole   user.Role
		wantMember bool
		wantTeam   string
	}{
		{name: "host outranks everything", userID: "host1", wantRole: user.RoleHost},
		{name: "captain from roster", userID: "m1", wantRole: user.RoleCaptain, wantMember: true, wantTeam: "team-a"},
		{name: "plain member is a player", userID: "m2", wantRole: user.RolePlayer, wantMember: true, wantTeam: "team-a"},
		{name: "stranger is a non-member player", userID: "ghost", wantRole: user.RolePlayer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), "lg1", tc.userID)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got.Role != tc.wantRole {
				t.Fatalf("expected role %s, got %s", tc.wantRole, got.Role)
			}
			if got.Member != tc.wantMember {
				t.Fatalf("expected member=%v, got %v", tc.wantMember, got.Member)
			}
			if got.TeamID != tc.wantTeam {
				t.Fatalf("expected team %q, got %q", tc.wantTeam, got.TeamID)
			}
		})
	}
}

func TestRoleResolver_UnknownLeague(t *testing.T) {
	t.Parallel()

	resolver := NewRoleResolver(newStubLeagueRepo(), &stubRosterRepo{snapshot: testRoster()})

	got, err := resolver.Resolve(context.Background(), "missing", "m1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Role != user.RolePlayer || got.Member {
		t.Fatalf("expected non-member player fallback, got %+v", got)
	}
}
