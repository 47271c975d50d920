package usecase

import (
	"context"
	"sync"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

type fakeTeamRepo struct {
	mu    sync.Mutex
	items map[string]team.Config
}

func newFakeTeamRepo(items ...team.Config) *fakeTeamRepo {
	repo := &fakeTeamRepo{items: make(map[string]team.Config)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeTeamRepo) List(_ context.Context) ([]team.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]team.Config, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, teamID string) (team.Config, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *fakeTeamRepo) Upsert(_ context.Context, cfg team.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[cfg.ID] = cfg
	return nil
}

type fakePlayerRepo struct {
	mu    sync.Mutex
	order []string
	items map[string]player.Player
}

func newFakePlayerRepo(items ...player.Player) *fakePlayerRepo {
	repo := &fakePlayerRepo{items: make(map[string]player.Player)}
	for _, item := range items {
		repo.order = append(repo.order, item.ID)
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakePlayerRepo) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		if item, ok := r.items[id]; ok && item.TeamID == teamID {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) GetByIDs(_ context.Context, teamID string, playerIDs []string) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.items[id]; ok && item.TeamID == teamID {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) Upsert(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *fakePlayerRepo) UpdateStats(_ context.Context, teamID, playerID string, stats player.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[playerID]
	if !ok || item.TeamID != teamID {
		return nil
	}
	item.Stats = stats.Clone()
	r.items[playerID] = item
	return nil
}

type fakeMatchRepo struct {
	mu    sync.Mutex
	items map[string]match.Match
}

func newFakeMatchRepo(items ...match.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{items: make(map[string]match.Match)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeMatchRepo) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *fakeMatchRepo) ListOpen(_ context.Context) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.Status == match.StatusOpen {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item.Clone()
	return nil
}

func fixedIDGen(id string) fakeIDGen {
	return fakeIDGen{id: id}
}

type fakeIDGen struct {
	id string
}

func (g fakeIDGen) NewID() (string, error) {
	return g.id, nil
}

func squadConfig() team.Config {
	return team.Config{
		ID:               "team-1",
		Name:             "U10 Blue",
		Format:           team.Format5v5,
		SquadSize:        7,
		Shape:            team.Shape22,
		SubstitutionType: team.SubstitutionIndividual,
	}
}

func squadPlayer(id string, defSec, midSec, attSec int) player.Player {
	return player.Player{
		ID:     id,
		TeamID: "team-1",
		Name:   "Player " + id,
		Stats: player.Stats{
			SecondsByRole: map[player.Role]int{
				player.RoleDefender:   defSec,
				player.RoleMidfielder: midSec,
				player.RoleAttacker:   attSec,
			},
			OutfieldSeconds: defSec + midSec + attSec,
		},
	}
}
