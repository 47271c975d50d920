package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotaplan/rotaplan/internal/domain/player"
)

// PlayerRepository keeps ordering deterministic: ListByTeam returns players
// in the order they were first added and GetByIDs follows the requested id
// order. The rotation engine relies on this for stable tie-breaking.
type PlayerRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{items: make(map[string]player.Player)}
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		item, ok := r.items[id]
		if ok && item.TeamID == teamID {
			out = append(out, item.Clone())
		}
	}

	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, teamID string, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		item, ok := r.items[id]
		if ok && item.TeamID == teamID {
			out = append(out, item.Clone())
		}
	}

	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *PlayerRepository) UpdateStats(_ context.Context, teamID, playerID string, stats player.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[playerID]
	if !ok || item.TeamID != teamID {
		return fmt.Errorf("player %s not found in team %s", playerID, teamID)
	}

	item.Stats = stats.Clone()
	r.items[playerID] = item
	return nil
}
