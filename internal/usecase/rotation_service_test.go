package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

func openMatch(id string) match.Match {
	return match.Match{
		ID:        id,
		TeamID:    "team-1",
		Period:    1,
		Status:    match.StatusOpen,
		GoalieID:  "p1",
		SquadIDs:  []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"},
		StartedAt: time.Now().UTC(),
	}
}

func newRotationServiceFixture(cfg team.Config, items ...match.Match) *RotationService {
	teamRepo := newFakeTeamRepo(cfg)
	playerRepo := newFakePlayerRepo(
		squadPlayer("p1", 0, 0, 0),
		squadPlayer("p2", 100, 0, 0),
		squadPlayer("p3", 200, 0, 0),
		squadPlayer("p4", 300, 0, 0),
		squadPlayer("p5", 400, 0, 0),
		squadPlayer("p6", 500, 0, 0),
		squadPlayer("p7", 600, 0, 0),
	)
	return NewRotationService(teamRepo, playerRepo, newFakeMatchRepo(items...))
}

func TestRotationServiceRecommend(t *testing.T) {
	svc := newRotationServiceFixture(squadConfig(), openMatch("m1"))

	rec, err := svc.Recommend(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.MatchID != "m1" || rec.Period != 1 || rec.Degraded {
		t.Fatalf("rec = %+v", rec)
	}
	if rec.Recommendation.Formation.GoalieID != "p1" {
		t.Fatalf("GoalieID = %q", rec.Recommendation.Formation.GoalieID)
	}
	if len(rec.Recommendation.Formation.Slots) != 6 {
		t.Fatalf("slot count = %d, want 6", len(rec.Recommendation.Formation.Slots))
	}
	if dups := rec.Recommendation.Formation.DuplicateIDs(); len(dups) != 0 {
		t.Fatalf("duplicate placements: %v", dups)
	}
}

func TestRotationServiceRecommendDegradesOnUnknownMode(t *testing.T) {
	cfg := squadConfig()
	// 2-3-1 needs six outfield slots, a 5v5 pitch only has four.
	cfg.Shape = team.Shape231

	svc := newRotationServiceFixture(cfg, openMatch("m1"))

	rec, err := svc.Recommend(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !rec.Degraded {
		t.Fatal("expected degraded recommendation")
	}
	if rec.Recommendation.Formation.GoalieID != "p1" || len(rec.Recommendation.Formation.Slots) != 0 {
		t.Fatalf("fallback formation = %+v", rec.Recommendation.Formation)
	}
}

func TestRotationServiceRecommendNotFound(t *testing.T) {
	svc := newRotationServiceFixture(squadConfig())

	_, err := svc.Recommend(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRotationServiceRecommendRejectsFinishedMatch(t *testing.T) {
	finished := openMatch("m1")
	finished.Status = match.StatusFinished
	svc := newRotationServiceFixture(squadConfig(), finished)

	_, err := svc.Recommend(context.Background(), "m1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
