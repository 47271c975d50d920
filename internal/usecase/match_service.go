package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
	"github.com/rotaplan/rotaplan/internal/platform/id"
)

type StartMatchInput struct {
	TeamID   string
	SquadIDs []string
	GoalieID string
}

// PeriodReport closes out the period that was just played: who spent how
// long in which role, the formation that was actually on the pitch, and who
// takes the gloves next.
type PeriodReport struct {
	MatchID      string
	Entries      []PeriodEntry
	Played       *formation.Formation
	NextGoalieID string
}

type PeriodEntry struct {
	PlayerID      string
	SecondsByRole map[player.Role]int
}

type MatchService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	roster     *RosterService
	idGen      id.Generator
	now        func() time.Time
}

func NewMatchService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	roster *RosterService,
	idGen id.Generator,
) *MatchService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &MatchService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		roster:     roster,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *MatchService) GetByID(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return item, nil
}

func (s *MatchService) ListOpen(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListOpen")
	defer span.End()

	items, err := s.matchRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open matches: %w", err)
	}

	return items, nil
}

func (s *MatchService) Start(ctx context.Context, input StartMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Start")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.GoalieID = strings.TrimSpace(input.GoalieID)
	if input.TeamID == "" {
		return match.Match{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if input.GoalieID == "" {
		return match.Match{}, fmt.Errorf("%w: goalie_id is required", ErrInvalidInput)
	}

	cfg, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}

	squadIDs, err := normalizeIDs(input.SquadIDs)
	if err != nil {
		return match.Match{}, err
	}
	if len(squadIDs) != cfg.SquadSize {
		return match.Match{}, fmt.Errorf("%w: squad must contain exactly %d players", ErrInvalidInput, cfg.SquadSize)
	}

	seen := make(map[string]struct{}, len(squadIDs))
	goalieInSquad := false
	for _, playerID := range squadIDs {
		if _, dup := seen[playerID]; dup {
			return match.Match{}, fmt.Errorf("%w: duplicate player id in squad %s", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}
		if playerID == input.GoalieID {
			goalieInSquad = true
		}
	}
	if !goalieInSquad {
		return match.Match{}, fmt.Errorf("%w: goalie must be part of the squad", ErrInvalidInput)
	}

	players, err := s.playerRepo.GetByIDs(ctx, input.TeamID, squadIDs)
	if err != nil {
		return match.Match{}, fmt.Errorf("get squad players: %w", err)
	}
	if len(players) != len(squadIDs) {
		return match.Match{}, fmt.Errorf("%w: some squad players are not on the roster", ErrInvalidInput)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	item := match.Match{
		ID:        matchID,
		TeamID:    input.TeamID,
		Period:    1,
		Status:    match.StatusOpen,
		GoalieID:  input.GoalieID,
		SquadIDs:  squadIDs,
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := s.matchRepo.Upsert(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("save match: %w", err)
	}

	return item, nil
}

// ClosePeriod records the period that just finished and moves the match to
// the next one. Reported playing time lands on player stats, the played
// formation becomes the continuity baseline, and the goalkeeper handover is
// remembered so pair repair can see both keepers.
func (s *MatchService) ClosePeriod(ctx context.Context, report PeriodReport) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ClosePeriod")
	defer span.End()

	item, err := s.GetByID(ctx, report.MatchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status != match.StatusOpen {
		return match.Match{}, fmt.Errorf("%w: match %s is already finished", ErrInvalidInput, item.ID)
	}

	nextGoalieID := strings.TrimSpace(report.NextGoalieID)
	if nextGoalieID == "" {
		nextGoalieID = item.GoalieID
	}
	if !containsID(item.SquadIDs, nextGoalieID) {
		return match.Match{}, fmt.Errorf("%w: next goalie must be part of the squad", ErrInvalidInput)
	}

	deltas := make([]player.StatsDelta, 0, len(report.Entries))
	for _, entry := range report.Entries {
		playerID := strings.TrimSpace(entry.PlayerID)
		if !containsID(item.SquadIDs, playerID) {
			return match.Match{}, fmt.Errorf("%w: reported player %s is not in the match squad", ErrInvalidInput, playerID)
		}
		deltas = append(deltas, player.StatsDelta{
			PlayerID:       playerID,
			SecondsByRole:  entry.SecondsByRole,
			PlayedAsGoalie: playerID == item.GoalieID,
		})
	}

	if err := s.roster.ApplyStatDeltas(ctx, item.TeamID, deltas); err != nil {
		return match.Match{}, err
	}

	if report.Played != nil {
		played := report.Played.Clone()
		item.Previous = &played
	}
	item.PreviousGoalieID = item.GoalieID
	item.GoalieID = nextGoalieID
	item.Period++
	item.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.Upsert(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("save match after period close: %w", err)
	}

	return item, nil
}

func (s *MatchService) Finish(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Finish")
	defer span.End()

	item, err := s.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status == match.StatusFinished {
		return item, nil
	}

	item.Status = match.StatusFinished
	item.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.Upsert(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("save finished match: %w", err)
	}

	return item, nil
}

func normalizeIDs(ids []string) ([]string, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, id)
	}
	return cleaned, nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
