package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/rotation"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

// MatchRecommendation pairs the engine output with the match context it was
// computed for.
type MatchRecommendation struct {
	MatchID        string
	TeamID         string
	Period         int
	Recommendation rotation.Recommendation
	Degraded       bool
}

type RotationService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
}

func NewRotationService(teamRepo team.Repository, playerRepo player.Repository, matchRepo match.Repository) *RotationService {
	return &RotationService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
	}
}

// Recommend plans the next period for an open match. A team configuration
// the engine cannot resolve still yields a goalie-only recommendation,
// flagged as degraded.
func (s *RotationService) Recommend(ctx context.Context, matchID string) (MatchRecommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RotationService.Recommend")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchRecommendation{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchRecommendation{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return MatchRecommendation{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if item.Status != match.StatusOpen {
		return MatchRecommendation{}, fmt.Errorf("%w: match %s is already finished", ErrInvalidInput, item.ID)
	}

	cfg, exists, err := s.teamRepo.GetByID(ctx, item.TeamID)
	if err != nil {
		return MatchRecommendation{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return MatchRecommendation{}, fmt.Errorf("%w: team=%s", ErrNotFound, item.TeamID)
	}

	squad, err := s.playerRepo.GetByIDs(ctx, item.TeamID, item.SquadIDs)
	if err != nil {
		return MatchRecommendation{}, fmt.Errorf("get squad players: %w", err)
	}
	if len(squad) != len(item.SquadIDs) {
		return MatchRecommendation{}, fmt.Errorf("%w: match squad no longer matches the roster", ErrInvalidInput)
	}

	plan, err := rotation.Plan(rotation.Input{
		Config:           cfg,
		Squad:            squad,
		Previous:         item.Previous,
		Period:           item.Period,
		GoalieID:         item.GoalieID,
		PreviousGoalieID: item.PreviousGoalieID,
	})

	out := MatchRecommendation{
		MatchID:        item.ID,
		TeamID:         item.TeamID,
		Period:         item.Period,
		Recommendation: plan,
	}
	if err != nil {
		if !errors.Is(err, rotation.ErrUnknownMode) {
			return MatchRecommendation{}, fmt.Errorf("plan rotation: %w", err)
		}
		out.Degraded = true
	}

	return out, nil
}
