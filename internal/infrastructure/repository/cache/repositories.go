package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
	basecache "github.com/rotaplan/rotaplan/internal/platform/cache"
)

// Read-through decorators for the persistence layer. Each wrapper caches
// reads in the shared store and invalidates the affected keys on writes,
// so the postgres backend sees one query per TTL window instead of one
// per recommendation request.

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Config, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Config(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Config)
	return append([]team.Config(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Config, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Config{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, cfg team.Config) error {
	if err := r.next.Upsert(ctx, cfg); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:list")
	r.cache.Delete(ctx, "team:id:"+cfg.ID)
	return nil
}

type cachedTeamByID struct {
	value  team.Config
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	key := "player:list:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return clonePlayers(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return clonePlayers(items), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, teamID string, playerIDs []string) ([]player.Player, error) {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	key := "player:ids:" + teamID + ":" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, teamID, playerIDs)
		if err != nil {
			return nil, err
		}
		return clonePlayers(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return clonePlayers(items), nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.invalidateTeam(ctx, item.TeamID)
	return nil
}

func (r *PlayerRepository) UpdateStats(ctx context.Context, teamID, playerID string, stats player.Stats) error {
	if err := r.next.UpdateStats(ctx, teamID, playerID, stats); err != nil {
		return err
	}
	r.invalidateTeam(ctx, teamID)
	return nil
}

// Stat updates land several times per period, and GetByIDs keys vary by
// squad selection, so writes flush every player key for the team.
func (r *PlayerRepository) invalidateTeam(ctx context.Context, teamID string) {
	r.cache.Delete(ctx, "player:list:"+teamID)
	r.cache.DeletePrefix(ctx, "player:ids:"+teamID+":")
}

func clonePlayers(items []player.Player) []player.Player {
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	key := "match:id:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *MatchRepository) ListOpen(ctx context.Context) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, "match:open", func(ctx context.Context) (any, error) {
		items, err := r.next.ListOpen(ctx)
		if err != nil {
			return nil, err
		}
		return cloneMatches(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return cloneMatches(items), nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "match:id:"+item.ID)
	r.cache.Delete(ctx, "match:open")
	return nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func cloneMatches(items []match.Match) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
