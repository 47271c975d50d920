package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/platform/logging"
)

// TimekeeperProvider reads per-player playing time from the stopwatch app
// running on the sideline.
type TimekeeperProvider interface {
	FetchMatchTimes(ctx context.Context, matchID string) ([]ExternalPlayerTime, error)
}

// ExternalPlayerTime is the cumulative time one player has spent in each
// role across the whole match, as the timekeeper sees it.
type ExternalPlayerTime struct {
	PlayerID      string
	SecondsByRole map[player.Role]int
	GoaliePeriods int
}

// StatSyncService reconciles stored player stats with the timekeeper's
// cumulative view. It only ever adds time: a timekeeper total below the
// stored one is treated as a stale read and skipped.
type StatSyncService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	provider   TimekeeperProvider
	maxWorkers int
	logger     *logging.Logger
}

func NewStatSyncService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	provider TimekeeperProvider,
	maxWorkers int,
	logger *logging.Logger,
) *StatSyncService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatSyncService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		provider:   provider,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// SyncOpenMatches pulls timekeeper readings for every open match in
// parallel and folds the differences into stored stats. It returns the
// number of matches synced; the first failing match aborts the batch
// error-wise but does not cancel siblings already running.
func (s *StatSyncService) SyncOpenMatches(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatSyncService.SyncOpenMatches")
	defer span.End()

	if s.provider == nil {
		return 0, fmt.Errorf("%w: timekeeper integration is not configured", ErrDependencyUnavailable)
	}

	open, err := s.matchRepo.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open matches for stat sync: %w", err)
	}
	if len(open) == 0 {
		return 0, nil
	}

	workers := pool.New().WithErrors().WithMaxGoroutines(s.maxWorkers)
	for _, item := range open {
		matchItem := item
		workers.Go(func() error {
			return s.SyncMatch(ctx, matchItem)
		})
	}

	if err := workers.Wait(); err != nil {
		return 0, err
	}
	return len(open), nil
}

func (s *StatSyncService) SyncMatch(ctx context.Context, item match.Match) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatSyncService.SyncMatch")
	defer span.End()

	times, err := s.provider.FetchMatchTimes(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("%w: fetch timekeeper readings for match %s: %v", ErrDependencyUnavailable, item.ID, err)
	}
	if len(times) == 0 {
		return nil
	}

	squad, err := s.playerRepo.GetByIDs(ctx, item.TeamID, item.SquadIDs)
	if err != nil {
		return fmt.Errorf("get squad players for stat sync: %w", err)
	}
	squadByID := make(map[string]player.Player, len(squad))
	for _, p := range squad {
		squadByID[p.ID] = p
	}

	for _, reading := range times {
		playerID := strings.TrimSpace(reading.PlayerID)
		stored, ok := squadByID[playerID]
		if !ok {
			s.logger.WarnContext(ctx, "timekeeper reported unknown player", "match_id", item.ID, "player_id", playerID)
			continue
		}

		stats, changed := mergeTimekeeperReading(stored.Stats, reading)
		if !changed {
			continue
		}
		if err := s.playerRepo.UpdateStats(ctx, stored.TeamID, stored.ID, stats); err != nil {
			return fmt.Errorf("update stats from timekeeper for player %s: %w", stored.ID, err)
		}
	}

	return nil
}

func mergeTimekeeperReading(stored player.Stats, reading ExternalPlayerTime) (player.Stats, bool) {
	stats := stored.Clone()
	if stats.SecondsByRole == nil {
		stats.SecondsByRole = make(map[player.Role]int, len(reading.SecondsByRole))
	}

	changed := false
	for role, total := range reading.SecondsByRole {
		delta := total - stats.SecondsByRole[role]
		if delta <= 0 {
			continue
		}
		stats.SecondsByRole[role] += delta
		if role != player.RoleGoalie {
			stats.OutfieldSeconds += delta
		}
		changed = true
	}
	if reading.GoaliePeriods > stats.PeriodsAsGoalie {
		stats.PeriodsAsGoalie = reading.GoaliePeriods
		changed = true
	}

	return stats, changed
}
