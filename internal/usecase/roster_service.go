package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
	"github.com/rotaplan/rotaplan/internal/platform/id"
)

type SavePlayerInput struct {
	ID     string
	TeamID string
	Name   string
	Number int
}

type RosterService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	idGen      id.Generator
}

func NewRosterService(teamRepo team.Repository, playerRepo player.Repository, idGen id.Generator) *RosterService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &RosterService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		idGen:      idGen,
	}
}

func (s *RosterService) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListByTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}

	items, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players by team: %w", err)
	}

	return items, nil
}

func (s *RosterService) Save(ctx context.Context, input SavePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Save")
	defer span.End()

	input.ID = strings.TrimSpace(input.ID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Name = strings.TrimSpace(input.Name)

	if input.TeamID == "" {
		return player.Player{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if err := s.requireTeam(ctx, input.TeamID); err != nil {
		return player.Player{}, err
	}

	item := player.Player{
		ID:     input.ID,
		TeamID: input.TeamID,
		Name:   input.Name,
		Number: input.Number,
	}
	if item.ID == "" {
		newID, err := s.idGen.NewID()
		if err != nil {
			return player.Player{}, fmt.Errorf("generate player id: %w", err)
		}
		item.ID = newID
	} else {
		existing, exists, err := s.findPlayer(ctx, input.TeamID, item.ID)
		if err != nil {
			return player.Player{}, err
		}
		if exists {
			item.Stats = existing.Stats
		}
	}

	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Upsert(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("save player: %w", err)
	}

	return item, nil
}

// SetAvailability toggles whether a player may take field or early
// substitute slots. Unavailable players still appear on the sheet but are
// deferred to the deepest bench positions.
func (s *RosterService) SetAvailability(ctx context.Context, teamID, playerID string, available bool) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetAvailability")
	defer span.End()

	item, err := s.mustGetPlayer(ctx, teamID, playerID)
	if err != nil {
		return player.Player{}, err
	}

	item.Stats.Inactive = !available
	if err := s.playerRepo.UpdateStats(ctx, item.TeamID, item.ID, item.Stats); err != nil {
		return player.Player{}, fmt.Errorf("update player availability: %w", err)
	}

	return item, nil
}

// SetCaptain marks one player as captain and clears the flag from the rest
// of the roster.
func (s *RosterService) SetCaptain(ctx context.Context, teamID, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetCaptain")
	defer span.End()

	captain, err := s.mustGetPlayer(ctx, teamID, playerID)
	if err != nil {
		return player.Player{}, err
	}

	roster, err := s.playerRepo.ListByTeam(ctx, captain.TeamID)
	if err != nil {
		return player.Player{}, fmt.Errorf("list players for captain change: %w", err)
	}

	for _, item := range roster {
		isCaptain := item.ID == captain.ID
		if item.Stats.Captain == isCaptain {
			continue
		}
		item.Stats.Captain = isCaptain
		if err := s.playerRepo.UpdateStats(ctx, item.TeamID, item.ID, item.Stats); err != nil {
			return player.Player{}, fmt.Errorf("update captain flag: %w", err)
		}
		if isCaptain {
			captain = item
		}
	}

	return captain, nil
}

// ApplyStatDeltas folds one period's worth of playing time into the stored
// per-role totals. Deltas for unknown players are rejected before any write
// so a bad report never lands partially.
func (s *RosterService) ApplyStatDeltas(ctx context.Context, teamID string, deltas []player.StatsDelta) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ApplyStatDeltas")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if len(deltas) == 0 {
		return nil
	}

	playerIDs := make([]string, 0, len(deltas))
	for _, delta := range deltas {
		deltaID := strings.TrimSpace(delta.PlayerID)
		if deltaID == "" {
			return fmt.Errorf("%w: stat delta player id cannot be empty", ErrInvalidInput)
		}
		for _, seconds := range delta.SecondsByRole {
			if seconds < 0 {
				return fmt.Errorf("%w: stat delta seconds cannot be negative for player %s", ErrInvalidInput, deltaID)
			}
		}
		playerIDs = append(playerIDs, deltaID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, teamID, playerIDs)
	if err != nil {
		return fmt.Errorf("get players for stat deltas: %w", err)
	}
	if len(players) != len(playerIDs) {
		return fmt.Errorf("%w: some players in the stat report are not on the roster", ErrInvalidInput)
	}

	playersByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	for _, delta := range deltas {
		item := playersByID[strings.TrimSpace(delta.PlayerID)]
		stats := item.Stats.Clone()
		if stats.SecondsByRole == nil {
			stats.SecondsByRole = make(map[player.Role]int, len(delta.SecondsByRole))
		}
		for role, seconds := range delta.SecondsByRole {
			stats.SecondsByRole[role] += seconds
			if role != player.RoleGoalie {
				stats.OutfieldSeconds += seconds
			}
		}
		if delta.PlayedAsGoalie {
			stats.PeriodsAsGoalie++
		}
		if err := s.playerRepo.UpdateStats(ctx, item.TeamID, item.ID, stats); err != nil {
			return fmt.Errorf("apply stat delta for player %s: %w", item.ID, err)
		}
	}

	return nil
}

func (s *RosterService) requireTeam(ctx context.Context, teamID string) error {
	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return nil
}

func (s *RosterService) findPlayer(ctx context.Context, teamID, playerID string) (player.Player, bool, error) {
	players, err := s.playerRepo.GetByIDs(ctx, teamID, []string{playerID})
	if err != nil {
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}
	if len(players) == 0 {
		return player.Player{}, false, nil
	}

	return players[0], true, nil
}

func (s *RosterService) mustGetPlayer(ctx context.Context, teamID, playerID string) (player.Player, error) {
	teamID = strings.TrimSpace(teamID)
	playerID = strings.TrimSpace(playerID)
	if teamID == "" || playerID == "" {
		return player.Player{}, fmt.Errorf("%w: team_id and player_id are required", ErrInvalidInput)
	}

	item, exists, err := s.findPlayer(ctx, teamID, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return item, nil
}
