package memory

import (
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/challenge"
	"github.com/riskibarqy/effort-league/internal/domain/donation"
	"github.com/riskibarqy/effort-league/internal/domain/effort"
	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
)

const (
	LeagueIDGarudaFit  = "idn-garuda-fit-2026"
	LeagueIDMerdekaRun = "idn-merdeka-run-2025"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:          LeagueIDGarudaFit,
			Name:        "Garuda Fit League",
			Status:      league.StatusActive,
			StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
			Timezone:    "Asia/Jakarta",
			HostID:      "usr-host-rina",
			GovernorIDs: []string{"usr-gov-bimo"},
		},
		{
			ID:        LeagueIDMerdekaRun,
			Name:      "Merdeka Run Challenge",
			Status:    league.StatusCompleted,
			StartDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
			Timezone:  "Asia/Jakarta",
			HostID:    "usr-host-rina",
		},
	}
}

func SeedTeams() []roster.Team {
	return []roster.Team{
		{ID: "team-rajawali", LeagueID: LeagueIDGarudaFit, Name: "Rajawali", CaptainID: "usr-cpt-andi"},
		{ID: "team-komodo", LeagueID: LeagueIDGarudaFit, Name: "Komodo", CaptainID: "usr-cpt-sari"},
		{ID: "team-cendrawasih", LeagueID: LeagueIDGarudaFit, Name: "Cendrawasih", CaptainID: "usr-cpt-yoga"},
	}
}

func SeedSubTeams() []roster.SubTeam {
	return []roster.SubTeam{
		{ID: "sub-rajawali-pagi", TeamID: "team-rajawali", Name: "Skuad Pagi"},
		{ID: "sub-rajawali-malam", TeamID: "team-rajawali", Name: "Skuad Malam"},
		{ID: "sub-komodo-inti", TeamID: "team-komodo", Name: "Skuad Inti"},
	}
}

func SeedMembers() []roster.Member {
	return []roster.Member{
		{ID: "usr-cpt-andi", LeagueID: LeagueIDGarudaFit, TeamID: "team-rajawali", SubTeamID: "sub-rajawali-pagi", Name: "Andi Pratama", RestDays: 6},
		{ID: "usr-ply-dewi", LeagueID: LeagueIDGarudaFit, TeamID: "team-rajawali", SubTeamID: "sub-rajawali-pagi", Name: "Dewi Lestari", RestDays: 4},
		{ID: "usr-ply-fajar", LeagueID: LeagueIDGarudaFit, TeamID: "team-rajawali", SubTeamID: "sub-rajawali-malam", Name: "Fajar Nugroho", RestDays: 3},
		{ID: "usr-ply-intan", LeagueID: LeagueIDGarudaFit, TeamID: "team-rajawali", SubTeamID: "sub-rajawali-malam", Name: "Intan Permata", RestDays: 5},
		{ID: "usr-cpt-sari", LeagueID: LeagueIDGarudaFit, TeamID: "team-komodo", SubTeamID: "sub-komodo-inti", Name: "Sari Wulandari", RestDays: 7},
		{ID: "usr-ply-bagus", LeagueID: LeagueIDGarudaFit, TeamID: "team-komodo", SubTeamID: "sub-komodo-inti", Name: "Bagus Santoso", RestDays: 2},
		{ID: "usr-ply-citra", LeagueID: LeagueIDGarudaFit, TeamID: "team-komodo", Name: "Citra Anggraini", RestDays: 4},
		{ID: "usr-cpt-yoga", LeagueID: LeagueIDGarudaFit, TeamID: "team-cendrawasih", Name: "Yoga Saputra", RestDays: 5},
		{ID: "usr-ply-lina", LeagueID: LeagueIDGarudaFit, TeamID: "team-cendrawasih", Name: "Lina Marlina", RestDays: 3},
	}
}

func SeedEffortEntries() []effort.Entry {
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }
	logged := func(d int) time.Time { return time.Date(2026, 8, d, 21, 0, 0, 0, time.UTC) }

	return []effort.Entry{
		{ID: "eff-0001", LeagueID: LeagueIDGarudaFit, MemberID: "usr-cpt-andi", Date: day(20), Kind: "run", RRValue: 2.4, Status: effort.StatusApproved, CreatedAt: logged(20)},
		{ID: "eff-0002", LeagueID: LeagueIDGarudaFit, MemberID: "usr-cpt-andi", Date: day(21), Kind: "run", RRValue: 2.1, Status: effort.StatusApproved, CreatedAt: logged(21)},
		{ID: "eff-0003", LeagueID: LeagueIDGarudaFit, MemberID: "usr-ply-dewi", Date: day(20), Kind: "cycling", RRValue: 1.8, Status: effort.StatusApproved, CreatedAt: logged(20)},
		{ID: "eff-0004", LeagueID: LeagueIDGarudaFit, MemberID: "usr-ply-dewi", Date: day(22), Kind: "swim", RRValue: 2.9, Status: effort.StatusApproved, CreatedAt: logged(22)},
		{ID: "eff-0005", LeagueID: LeagueIDGarudaFit, MemberID: "usr-ply-fajar", Date: day(21), Kind: "run", RRValue: 1.5, Status: effort.StatusPending, CreatedAt: logged(21)},
		{ID: "eff-0006", LeagueID: LeagueIDGarudaFit, MemberID: "usr-cpt-sari", Date: day(20), Kind: "hiit", RRValue: 3.2, Status: effort.StatusApproved, CreatedAt: logged(20)},
		{ID: "eff-0007", LeagueID: LeagueIDGarudaFit, MemberID: "usr-cpt-sari", Date: day(22), Kind: "hiit", RRValue: 3.0, Status: effort.StatusApproved, CreatedAt: logged(22)},
		{ID: "eff-0008", LeagueID: LeagueIDGarudaFit, MemberID: "usr-ply-bagus", Date: day(21), Kind: "run", RRValue: 2.2, Status: effort.StatusApproved, CreatedAt: logged(21)},
		{ID: "eff-0009", LeagueID: LeagueIDGarudaFit, MemberID: "usr-cpt-yoga", Date: day(20), Kind: "yoga", RRValue: 1.1, Status: effort.StatusApproved, CreatedAt: logged(20)},
		{ID: "eff-0010", LeagueID: LeagueIDGarudaFit, MemberID: "usr-ply-lina", Date: day(22), Kind: "run", RRValue: 2.6, Status: effort.StatusApproved, CreatedAt: logged(22)},
	}
}

func SeedChallenges() []challenge.Challenge {
	julyStart := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	julyEnd := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	augStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	augEnd := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	return []challenge.Challenge{
		{
			ID:          "chl-plank-july",
			LeagueID:    LeagueIDGarudaFit,
			Name:        "July Plank Marathon",
			Type:        challenge.TypeIndividual,
			TotalPoints: 100,
			Status:      challenge.StatusClosed,
			StartDate:   &julyStart,
			EndDate:     &julyEnd,
		},
		{
			ID:          "chl-relay-august",
			LeagueID:    LeagueIDGarudaFit,
			Name:        "August Relay Sprint",
			Type:        challenge.TypeIndividual,
			TotalPoints: 80,
			Status:      challenge.StatusPublished,
			StartDate:   &augStart,
			EndDate:     &augEnd,
		},
		{
			ID:          "chl-cup-september",
			LeagueID:    LeagueIDGarudaFit,
			Name:        "September Futsal Cup",
			Type:        challenge.TypeTournament,
			TotalPoints: 150,
			Status:      challenge.StatusDraft,
		},
	}
}

func SeedSubmissions() []challenge.Submission {
	reviewedAt := time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC)
	points := func(v float64) *float64 { return &v }

	return []challenge.Submission{
		{
			ID:            "sbm-relay-andi",
			ChallengeID:   "chl-relay-august",
			MemberID:      "usr-cpt-andi",
			TeamID:        "team-rajawali",
			Status:        challenge.SubmissionApproved,
			AwardedPoints: points(60),
			CreatedAt:     time.Date(2026, 8, 18, 14, 0, 0, 0, time.UTC),
			ReviewedAt:    &reviewedAt,
			ReviewedBy:    "usr-gov-bimo",
		},
		{
			ID:            "sbm-relay-sari",
			ChallengeID:   "chl-relay-august",
			MemberID:      "usr-cpt-sari",
			TeamID:        "team-komodo",
			Status:        challenge.SubmissionApproved,
			AwardedPoints: points(45),
			CreatedAt:     time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC),
			ReviewedAt:    &reviewedAt,
			ReviewedBy:    "usr-gov-bimo",
		},
	}
}

func SeedTeamBonuses() []challenge.TeamBonus {
	return []challenge.TeamBonus{
		{LeagueID: LeagueIDGarudaFit, ChallengeID: "chl-plank-july", TeamID: "team-rajawali", Points: 22.5},
		{LeagueID: LeagueIDGarudaFit, ChallengeID: "chl-plank-july", TeamID: "team-komodo", Points: 30},
	}
}

func SeedDonations() []donation.Request {
	return []donation.Request{
		{
			ID:         "don-0001",
			LeagueID:   LeagueIDGarudaFit,
			DonorID:    "usr-cpt-sari",
			ReceiverID: "usr-ply-bagus",
			Days:       2,
			Status:     donation.StatusPending,
			ProofRef:   "https://bukti.example/don-0001.jpg",
			CreatedAt:  time.Date(2026, 8, 25, 8, 30, 0, 0, time.UTC),
		},
	}
}
