package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/effort-league/internal/domain/league"
)

func TestLeagueRepository_ListKeepsSeedOrder(t *testing.T) {
	t.Parallel()

	repo := NewLeagueRepository(SeedLeagues())

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, LeagueIDGarudaFit, items[0].ID)
	require.Equal(t, LeagueIDMerdekaRun, items[1].ID)
}

func TestLeagueRepository_GetByID(t *testing.T) {
	t.Parallel()

	repo := NewLeagueRepository(SeedLeagues())

	lg, ok, err := repo.GetByID(context.Background(), LeagueIDGarudaFit)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Garuda Fit League", lg.Name)
	require.Equal(t, "usr-host-rina", lg.HostID)

	_, ok, err = repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLeagueRepository_MarkCompleted(t *testing.T) {
	t.Parallel()

	repo := NewLeagueRepository(SeedLeagues())
	ctx := context.Background()

	marked, err := repo.MarkCompleted(ctx, LeagueIDGarudaFit)
	require.NoError(t, err)
	require.True(t, marked)

	lg, ok, err := repo.GetByID(ctx, LeagueIDGarudaFit)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, league.StatusCompleted, lg.Status)

	// The guard keeps a second sweep from claiming the same write.
	marked, err = repo.MarkCompleted(ctx, LeagueIDGarudaFit)
	require.NoError(t, err)
	require.False(t, marked)

	marked, err = repo.MarkCompleted(ctx, "missing")
	require.NoError(t, err)
	require.False(t, marked)
}
