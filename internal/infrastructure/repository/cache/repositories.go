package cache

import (
	"context"

	"github.com/riskibarqy/effort-league/internal/domain/league"
	"github.com/riskibarqy/effort-league/internal/domain/roster"
	basecache "github.com/riskibarqy/effort-league/internal/platform/cache"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) MarkCompleted(ctx context.Context, leagueID string) (bool, error) {
	completed, err := r.next.MarkCompleted(ctx, leagueID)
	if err != nil {
		return false, err
	}
	if completed {
		r.cache.Delete(ctx, "league:id:"+leagueID)
		r.cache.Delete(ctx, "league:list")
	}
	return completed, nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) Snapshot(ctx context.Context, leagueID string) (roster.Snapshot, error) {
	key := "roster:snapshot:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		snapshot, err := r.next.Snapshot(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return snapshot, nil
	})
	if err != nil {
		return roster.Snapshot{}, err
	}

	snapshot, _ := v.(roster.Snapshot)
	return snapshot, nil
}

func (r *RosterRepository) GetMember(ctx context.Context, leagueID, memberID string) (roster.Member, bool, error) {
	key := "roster:member:" + leagueID + ":" + memberID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		member, exists, err := r.next.GetMember(ctx, leagueID, memberID)
		if err != nil {
			return nil, err
		}
		return cachedMemberByID{value: member, exists: exists}, nil
	})
	if err != nil {
		return roster.Member{}, false, err
	}

	cached, _ := v.(cachedMemberByID)
	return cached.value, cached.exists, nil
}

func (r *RosterRepository) TransferRestDays(ctx context.Context, donorID, receiverID string, days int) error {
	if err := r.next.TransferRestDays(ctx, donorID, receiverID, days); err != nil {
		return err
	}

	// Rest day balances moved for two members whose league is not known
	// here, so the whole roster namespace is dropped.
	r.cache.DeletePrefix(ctx, "roster:")
	return nil
}

type cachedMemberByID struct {
	value  roster.Member
	exists bool
}
