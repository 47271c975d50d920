package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rotaplan/rotaplan/internal/domain/player"
)

type stubTimeProvider struct {
	times map[string][]ExternalPlayerTime
	err   error
}

func (p *stubTimeProvider) FetchMatchTimes(_ context.Context, matchID string) ([]ExternalPlayerTime, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.times[matchID], nil
}

func TestStatSyncServiceAppliesPositiveDeltas(t *testing.T) {
	playerRepo := newFakePlayerRepo(
		squadPlayer("p1", 100, 0, 0),
		squadPlayer("p2", 0, 0, 0),
		squadPlayer("p3", 0, 0, 0),
		squadPlayer("p4", 0, 0, 0),
		squadPlayer("p5", 0, 0, 0),
		squadPlayer("p6", 0, 0, 0),
		squadPlayer("p7", 0, 0, 0),
	)
	matchRepo := newFakeMatchRepo(openMatch("m1"))
	provider := &stubTimeProvider{times: map[string][]ExternalPlayerTime{
		"m1": {
			{
				PlayerID:      "p1",
				SecondsByRole: map[player.Role]int{player.RoleDefender: 250},
			},
			{
				PlayerID:      "p2",
				SecondsByRole: map[player.Role]int{player.RoleGoalie: 720},
				GoaliePeriods: 1,
			},
		},
	}}
	svc := NewStatSyncService(matchRepo, playerRepo, provider, 2, nil)

	synced, err := svc.SyncOpenMatches(context.Background())
	if err != nil {
		t.Fatalf("SyncOpenMatches: %v", err)
	}
	if synced != 1 {
		t.Fatalf("synced = %d, want 1", synced)
	}

	stored, _ := playerRepo.GetByIDs(context.Background(), "team-1", []string{"p1", "p2"})
	if stored[0].Stats.RoleSeconds(player.RoleDefender) != 250 {
		t.Fatalf("p1 defender seconds = %d, want 250", stored[0].Stats.RoleSeconds(player.RoleDefender))
	}
	if stored[0].Stats.OutfieldSeconds != 250 {
		t.Fatalf("p1 outfield seconds = %d, want 250", stored[0].Stats.OutfieldSeconds)
	}
	if stored[1].Stats.PeriodsAsGoalie != 1 {
		t.Fatalf("p2 goalie periods = %d, want 1", stored[1].Stats.PeriodsAsGoalie)
	}
	if stored[1].Stats.OutfieldSeconds != 0 {
		t.Fatalf("goalie time must not count as outfield, got %d", stored[1].Stats.OutfieldSeconds)
	}
}

func TestStatSyncServiceIgnoresStaleReadings(t *testing.T) {
	playerRepo := newFakePlayerRepo(
		squadPlayer("p1", 500, 0, 0),
		squadPlayer("p2", 0, 0, 0),
		squadPlayer("p3", 0, 0, 0),
		squadPlayer("p4", 0, 0, 0),
		squadPlayer("p5", 0, 0, 0),
		squadPlayer("p6", 0, 0, 0),
		squadPlayer("p7", 0, 0, 0),
	)
	matchRepo := newFakeMatchRepo(openMatch("m1"))
	provider := &stubTimeProvider{times: map[string][]ExternalPlayerTime{
		"m1": {
			{
				PlayerID:      "p1",
				SecondsByRole: map[player.Role]int{player.RoleDefender: 300},
			},
		},
	}}
	svc := NewStatSyncService(matchRepo, playerRepo, provider, 1, nil)

	if _, err := svc.SyncOpenMatches(context.Background()); err != nil {
		t.Fatalf("SyncOpenMatches: %v", err)
	}

	stored, _ := playerRepo.GetByIDs(context.Background(), "team-1", []string{"p1"})
	if stored[0].Stats.RoleSeconds(player.RoleDefender) != 500 {
		t.Fatalf("stale reading must not shrink stats, got %d", stored[0].Stats.RoleSeconds(player.RoleDefender))
	}
}

func TestStatSyncServiceProviderFailure(t *testing.T) {
	matchRepo := newFakeMatchRepo(openMatch("m1"))
	provider := &stubTimeProvider{err: errors.New("connection refused")}
	svc := NewStatSyncService(matchRepo, newFakePlayerRepo(), provider, 1, nil)

	_, err := svc.SyncOpenMatches(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
	}
}

func TestStatSyncServiceRequiresProvider(t *testing.T) {
	svc := NewStatSyncService(newFakeMatchRepo(), newFakePlayerRepo(), nil, 1, nil)

	_, err := svc.SyncOpenMatches(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
	}
}
