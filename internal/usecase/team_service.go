package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/team"
	"github.com/rotaplan/rotaplan/internal/platform/id"
)

type SaveTeamInput struct {
	ID               string
	Name             string
	Format           team.Format
	SquadSize        int
	Shape            team.Shape
	SubstitutionType team.SubstitutionType
}

type TeamService struct {
	teamRepo team.Repository
	idGen    id.Generator
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository, idGen id.Generator) *TeamService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &TeamService{
		teamRepo: teamRepo,
		idGen:    idGen,
		now:      time.Now,
	}
}

func (s *TeamService) List(ctx context.Context) ([]team.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID string) (team.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetByID")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Config{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Config{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Config{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

func (s *TeamService) Save(ctx context.Context, input SaveTeamInput) (team.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Save")
	defer span.End()

	item := team.Config{
		ID:               strings.TrimSpace(input.ID),
		Name:             strings.TrimSpace(input.Name),
		Format:           input.Format,
		SquadSize:        input.SquadSize,
		Shape:            input.Shape,
		SubstitutionType: input.SubstitutionType,
	}
	if item.ID == "" {
		newID, err := s.idGen.NewID()
		if err != nil {
			return team.Config{}, fmt.Errorf("generate team id: %w", err)
		}
		item.ID = newID
	}

	if err := item.Validate(); err != nil {
		return team.Config{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, ok := formation.ResolveMode(item); !ok {
		return team.Config{}, fmt.Errorf(
			"%w: no playable formation for format=%s shape=%s substitution=%s squad=%d",
			ErrInvalidInput, item.Format, item.Shape, item.SubstitutionType, item.SquadSize,
		)
	}

	if err := s.teamRepo.Upsert(ctx, item); err != nil {
		return team.Config{}, fmt.Errorf("save team: %w", err)
	}

	return item, nil
}
