package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rotaplan/rotaplan/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Config
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[string]team.Config)}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Config, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	if !ok {
		return team.Config{}, false, nil
	}

	return item, true, nil
}

func (r *TeamRepository) Upsert(_ context.Context, cfg team.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[cfg.ID] = cfg
	return nil
}
