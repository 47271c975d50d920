package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/points"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

// PlayerPoints is one roster row in a fairness report.
type PlayerPoints struct {
	PlayerID string
	Name     string
	Number   int
	Captain  bool
	Inactive bool
	Points   points.RolePoints
}

type PointsService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
}

func NewPointsService(teamRepo team.Repository, playerRepo player.Repository) *PointsService {
	return &PointsService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
	}
}

// TeamPoints converts every roster player's accumulated playing time into
// role points, keeping roster order.
func (s *PointsService) TeamPoints(ctx context.Context, teamID string) ([]PlayerPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.TeamPoints")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	roster, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players for points: %w", err)
	}

	out := make([]PlayerPoints, 0, len(roster))
	for _, item := range roster {
		out = append(out, PlayerPoints{
			PlayerID: item.ID,
			Name:     item.Name,
			Number:   item.Number,
			Captain:  item.Stats.Captain,
			Inactive: item.Stats.Inactive,
			Points:   points.CalculateRolePoints(item.Stats),
		})
	}

	return out, nil
}

// SquadPoints reports points for an explicit squad selection only.
func (s *PointsService) SquadPoints(ctx context.Context, teamID string, squadIDs []string) ([]PlayerPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.SquadPoints")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if len(squadIDs) == 0 {
		return nil, fmt.Errorf("%w: squad cannot be empty", ErrInvalidInput)
	}

	squad, err := s.playerRepo.GetByIDs(ctx, teamID, squadIDs)
	if err != nil {
		return nil, fmt.Errorf("get squad players for points: %w", err)
	}
	if len(squad) != len(squadIDs) {
		return nil, fmt.Errorf("%w: some squad players are not on the roster", ErrInvalidInput)
	}

	out := make([]PlayerPoints, 0, len(squad))
	for _, item := range squad {
		out = append(out, PlayerPoints{
			PlayerID: item.ID,
			Name:     item.Name,
			Number:   item.Number,
			Captain:  item.Stats.Captain,
			Inactive: item.Stats.Inactive,
			Points:   points.CalculateRolePoints(item.Stats),
		})
	}

	return out, nil
}
