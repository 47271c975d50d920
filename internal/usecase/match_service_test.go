package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
)

func newMatchServiceFixture(t *testing.T) (*MatchService, *fakePlayerRepo, *fakeMatchRepo) {
	t.Helper()

	teamRepo := newFakeTeamRepo(squadConfig())
	playerRepo := newFakePlayerRepo(
		squadPlayer("p1", 0, 0, 0),
		squadPlayer("p2", 0, 0, 0),
		squadPlayer("p3", 0, 0, 0),
		squadPlayer("p4", 0, 0, 0),
		squadPlayer("p5", 0, 0, 0),
		squadPlayer("p6", 0, 0, 0),
		squadPlayer("p7", 0, 0, 0),
	)
	matchRepo := newFakeMatchRepo()
	roster := NewRosterService(teamRepo, playerRepo, nil)
	svc := NewMatchService(teamRepo, playerRepo, matchRepo, roster, fixedIDGen("match-1"))

	return svc, playerRepo, matchRepo
}

func fullSquad() []string {
	return []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}
}

func TestMatchServiceStart(t *testing.T) {
	svc, _, _ := newMatchServiceFixture(t)

	started, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: fullSquad(),
		GoalieID: "p1",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.ID != "match-1" || started.Period != 1 || started.Status != match.StatusOpen {
		t.Fatalf("started = %+v", started)
	}
	if started.Previous != nil || started.PreviousGoalieID != "" {
		t.Fatal("a fresh match carries no previous state")
	}
}

func TestMatchServiceStartRejectsWrongSquadSize(t *testing.T) {
	svc, _, _ := newMatchServiceFixture(t)

	_, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: []string{"p1", "p2", "p3"},
		GoalieID: "p1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMatchServiceStartRejectsGoalieOutsideSquad(t *testing.T) {
	svc, _, _ := newMatchServiceFixture(t)

	_, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: fullSquad(),
		GoalieID: "outsider",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMatchServiceClosePeriod(t *testing.T) {
	svc, playerRepo, _ := newMatchServiceFixture(t)

	started, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: fullSquad(),
		GoalieID: "p1",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	played := formation.Formation{
		GoalieID: "p1",
		Slots: map[formation.Position]string{
			formation.PositionLeftDefender:  "p2",
			formation.PositionRightDefender: "p3",
			formation.PositionLeftAttacker:  "p4",
			formation.PositionRightAttacker: "p5",
		},
	}

	closed, err := svc.ClosePeriod(context.Background(), PeriodReport{
		MatchID: started.ID,
		Entries: []PeriodEntry{
			{PlayerID: "p1", SecondsByRole: map[player.Role]int{player.RoleGoalie: 720}},
			{PlayerID: "p2", SecondsByRole: map[player.Role]int{player.RoleDefender: 720}},
			{PlayerID: "p4", SecondsByRole: map[player.Role]int{player.RoleAttacker: 720}},
		},
		Played:       &played,
		NextGoalieID: "p2",
	})
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}

	if closed.Period != 2 {
		t.Fatalf("Period = %d, want 2", closed.Period)
	}
	if closed.GoalieID != "p2" || closed.PreviousGoalieID != "p1" {
		t.Fatalf("goalie handover = (%s, %s)", closed.GoalieID, closed.PreviousGoalieID)
	}
	if closed.Previous == nil || closed.Previous.GoalieID != "p1" {
		t.Fatal("previous formation not recorded")
	}

	stored, _ := playerRepo.GetByIDs(context.Background(), "team-1", []string{"p1", "p2"})
	if stored[0].Stats.PeriodsAsGoalie != 1 {
		t.Fatalf("goalie period not counted: %+v", stored[0].Stats)
	}
	if stored[1].Stats.RoleSeconds(player.RoleDefender) != 720 || stored[1].Stats.OutfieldSeconds != 720 {
		t.Fatalf("p2 stats = %+v", stored[1].Stats)
	}
}

func TestMatchServiceClosePeriodKeepsGoalieWhenUnset(t *testing.T) {
	svc, _, _ := newMatchServiceFixture(t)

	started, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: fullSquad(),
		GoalieID: "p1",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	closed, err := svc.ClosePeriod(context.Background(), PeriodReport{MatchID: started.ID})
	if err != nil {
		t.Fatalf("ClosePeriod: %v", err)
	}
	if closed.GoalieID != "p1" || closed.PreviousGoalieID != "p1" {
		t.Fatalf("goalie handover = (%s, %s)", closed.GoalieID, closed.PreviousGoalieID)
	}
}

func TestMatchServiceClosePeriodRejectsFinishedMatch(t *testing.T) {
	svc, _, _ := newMatchServiceFixture(t)

	started, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: fullSquad(),
		GoalieID: "p1",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Finish(context.Background(), started.ID); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	_, err = svc.ClosePeriod(context.Background(), PeriodReport{MatchID: started.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMatchServiceFinishIsIdempotent(t *testing.T) {
	svc, _, _ := newMatchServiceFixture(t)

	started, err := svc.Start(context.Background(), StartMatchInput{
		TeamID:   "team-1",
		SquadIDs: fullSquad(),
		GoalieID: "p1",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	first, err := svc.Finish(context.Background(), started.ID)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	second, err := svc.Finish(context.Background(), started.ID)
	if err != nil {
		t.Fatalf("Finish again: %v", err)
	}
	if first.Status != match.StatusFinished || second.Status != match.StatusFinished {
		t.Fatalf("statuses = (%s, %s)", first.Status, second.Status)
	}
}
