package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/platform/cache"
	"github.com/rotaplan/rotaplan/internal/platform/logging"
)

// PlanNotifier pushes freshly computed recommendations to an external
// consumer, typically a sideline webhook.
type PlanNotifier interface {
	PublishPlanReady(ctx context.Context, rec MatchRecommendation) error
}

// PlanService fronts the rotation engine with a cache and a worker pool so
// recommendation reads stay cheap during a match and refreshes can fan out.
type PlanService struct {
	rotation  *RotationService
	matchRepo match.Repository
	store     *cache.Store
	notifier  PlanNotifier
	workers   *ants.Pool
	logger    *logging.Logger
}

func NewPlanService(
	rotation *RotationService,
	matchRepo match.Repository,
	store *cache.Store,
	notifier PlanNotifier,
	workerCount int,
	logger *logging.Logger,
) (*PlanService, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = logging.Default()
	}

	workers, err := ants.NewPool(workerCount, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create plan worker pool: %w", err)
	}

	return &PlanService{
		rotation:  rotation,
		matchRepo: matchRepo,
		store:     store,
		notifier:  notifier,
		workers:   workers,
		logger:    logger,
	}, nil
}

func (s *PlanService) Close() {
	if s.workers != nil {
		s.workers.Release()
	}
}

// Recommend serves the cached recommendation for a match, computing it on a
// miss. Concurrent misses for the same match collapse into one engine run.
func (s *PlanService) Recommend(ctx context.Context, matchID string) (MatchRecommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlanService.Recommend")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchRecommendation{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	if s.store == nil {
		return s.rotation.Recommend(ctx, matchID)
	}

	value, err := s.store.GetOrLoad(ctx, planCacheKey(matchID), func(loadCtx context.Context) (any, error) {
		return s.rotation.Recommend(loadCtx, matchID)
	})
	if err != nil {
		return MatchRecommendation{}, err
	}

	rec, ok := value.(MatchRecommendation)
	if !ok {
		return MatchRecommendation{}, fmt.Errorf("unexpected cached plan type %T for match %s", value, matchID)
	}

	return rec, nil
}

// Invalidate drops the cached plan after match state changes.
func (s *PlanService) Invalidate(ctx context.Context, matchID string) {
	if s.store == nil {
		return
	}
	s.store.Delete(ctx, planCacheKey(strings.TrimSpace(matchID)))
}

// RefreshAll recomputes plans for every open match on the worker pool and
// returns how many matches were refreshed. Individual failures are logged
// and counted, not fatal.
func (s *PlanService) RefreshAll(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlanService.RefreshAll")
	defer span.End()

	open, err := s.matchRepo.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open matches for plan refresh: %w", err)
	}
	if len(open) == 0 {
		return 0, nil
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		refreshed int
	)
	for _, item := range open {
		matchID := item.ID
		wg.Add(1)
		submitErr := s.workers.Submit(func() {
			defer wg.Done()
			if refreshErr := s.refreshOne(ctx, matchID); refreshErr != nil {
				s.logger.WarnContext(ctx, "plan refresh failed", "match_id", matchID, "error", refreshErr)
				return
			}
			mu.Lock()
			refreshed++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "plan refresh not scheduled", "match_id", matchID, "error", submitErr)
		}
	}
	wg.Wait()

	return refreshed, nil
}

func (s *PlanService) refreshOne(ctx context.Context, matchID string) error {
	rec, err := s.rotation.Recommend(ctx, matchID)
	if err != nil {
		return err
	}

	if s.store != nil {
		s.store.Set(ctx, planCacheKey(matchID), rec)
	}
	if s.notifier != nil {
		if notifyErr := s.notifier.PublishPlanReady(ctx, rec); notifyErr != nil {
			s.logger.WarnContext(ctx, "plan ready notification failed", "match_id", matchID, "error", notifyErr)
		}
	}

	return nil
}

func planCacheKey(matchID string) string {
	return "plan:" + matchID
}
