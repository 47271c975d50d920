package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rotaplan/rotaplan/internal/domain/player"
)

func TestRosterServiceSaveKeepsStatsOnRename(t *testing.T) {
	teamRepo := newFakeTeamRepo(squadConfig())
	existing := squadPlayer("p1", 300, 0, 120)
	playerRepo := newFakePlayerRepo(existing)
	svc := NewRosterService(teamRepo, playerRepo, fixedIDGen("unused"))

	saved, err := svc.Save(context.Background(), SavePlayerInput{
		ID:     "p1",
		TeamID: "team-1",
		Name:   "Renamed",
		Number: 9,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Name != "Renamed" || saved.Number != 9 {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.Stats.OutfieldSeconds != 420 {
		t.Fatalf("OutfieldSeconds = %d, want 420", saved.Stats.OutfieldSeconds)
	}
}

func TestRosterServiceSaveRequiresTeam(t *testing.T) {
	svc := NewRosterService(newFakeTeamRepo(), newFakePlayerRepo(), fixedIDGen("p-new"))

	_, err := svc.Save(context.Background(), SavePlayerInput{TeamID: "missing", Name: "Someone"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRosterServiceSetAvailability(t *testing.T) {
	teamRepo := newFakeTeamRepo(squadConfig())
	playerRepo := newFakePlayerRepo(squadPlayer("p1", 0, 0, 0))
	svc := NewRosterService(teamRepo, playerRepo, nil)

	updated, err := svc.SetAvailability(context.Background(), "team-1", "p1", false)
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if !updated.Stats.Inactive {
		t.Fatal("player should be inactive")
	}

	stored, err := playerRepo.GetByIDs(context.Background(), "team-1", []string{"p1"})
	if err != nil || len(stored) != 1 {
		t.Fatalf("GetByIDs: %v %d", err, len(stored))
	}
	if !stored[0].Stats.Inactive {
		t.Fatal("inactive flag not persisted")
	}
}

func TestRosterServiceSetCaptainClearsPrevious(t *testing.T) {
	teamRepo := newFakeTeamRepo(squadConfig())
	former := squadPlayer("p1", 0, 0, 0)
	former.Stats.Captain = true
	playerRepo := newFakePlayerRepo(former, squadPlayer("p2", 0, 0, 0))
	svc := NewRosterService(teamRepo, playerRepo, nil)

	if _, err := svc.SetCaptain(context.Background(), "team-1", "p2"); err != nil {
		t.Fatalf("SetCaptain: %v", err)
	}

	roster, err := playerRepo.ListByTeam(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("ListByTeam: %v", err)
	}
	for _, item := range roster {
		wantCaptain := item.ID == "p2"
		if item.Stats.Captain != wantCaptain {
			t.Fatalf("player %s captain = %v, want %v", item.ID, item.Stats.Captain, wantCaptain)
		}
	}
}

func TestRosterServiceApplyStatDeltas(t *testing.T) {
	teamRepo := newFakeTeamRepo(squadConfig())
	playerRepo := newFakePlayerRepo(squadPlayer("p1", 100, 0, 0), squadPlayer("p2", 0, 0, 0))
	svc := NewRosterService(teamRepo, playerRepo, nil)

	err := svc.ApplyStatDeltas(context.Background(), "team-1", []player.StatsDelta{
		{
			PlayerID:      "p1",
			SecondsByRole: map[player.Role]int{player.RoleDefender: 200},
		},
		{
			PlayerID:       "p2",
			SecondsByRole:  map[player.Role]int{player.RoleGoalie: 600},
			PlayedAsGoalie: true,
		},
	})
	if err != nil {
		t.Fatalf("ApplyStatDeltas: %v", err)
	}

	roster, err := playerRepo.GetByIDs(context.Background(), "team-1", []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	p1, p2 := roster[0], roster[1]
	if p1.Stats.RoleSeconds(player.RoleDefender) != 300 || p1.Stats.OutfieldSeconds != 300 {
		t.Fatalf("p1 stats = %+v", p1.Stats)
	}
	if p2.Stats.RoleSeconds(player.RoleGoalie) != 600 {
		t.Fatalf("p2 goalie seconds = %d", p2.Stats.RoleSeconds(player.RoleGoalie))
	}
	if p2.Stats.OutfieldSeconds != 0 {
		t.Fatalf("goalie seconds must not count as outfield, got %d", p2.Stats.OutfieldSeconds)
	}
	if p2.Stats.PeriodsAsGoalie != 1 {
		t.Fatalf("p2 PeriodsAsGoalie = %d", p2.Stats.PeriodsAsGoalie)
	}
}

func TestRosterServiceApplyStatDeltasRejectsUnknownPlayer(t *testing.T) {
	teamRepo := newFakeTeamRepo(squadConfig())
	playerRepo := newFakePlayerRepo(squadPlayer("p1", 0, 0, 0))
	svc := NewRosterService(teamRepo, playerRepo, nil)

	err := svc.ApplyStatDeltas(context.Background(), "team-1", []player.StatsDelta{
		{PlayerID: "ghost", SecondsByRole: map[player.Role]int{player.RoleDefender: 60}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	// Nothing may be written when any delta is rejected.
	stored, _ := playerRepo.GetByIDs(context.Background(), "team-1", []string{"p1"})
	if stored[0].Stats.OutfieldSeconds != 0 {
		t.Fatalf("p1 stats changed: %+v", stored[0].Stats)
	}
}

func TestRosterServiceApplyStatDeltasRejectsNegativeSeconds(t *testing.T) {
	teamRepo := newFakeTeamRepo(squadConfig())
	playerRepo := newFakePlayerRepo(squadPlayer("p1", 0, 0, 0))
	svc := NewRosterService(teamRepo, playerRepo, nil)

	err := svc.ApplyStatDeltas(context.Background(), "team-1", []player.StatsDelta{
		{PlayerID: "p1", SecondsByRole: map[player.Role]int{player.RoleDefender: -5}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
