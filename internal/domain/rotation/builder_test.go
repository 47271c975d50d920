package rotation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

func testPlayer(id string, defenderSec, midfielderSec, attackerSec int) player.Player {
	return player.Player{
		ID:     id,
		TeamID: "team-1",
		Name:   "Player " + id,
		Stats: player.Stats{
			SecondsByRole: map[player.Role]int{
				player.RoleDefender:   defenderSec,
				player.RoleMidfielder: midfielderSec,
				player.RoleAttacker:   attackerSec,
			},
			OutfieldSeconds: defenderSec + midfielderSec + attackerSec,
		},
	}
}

func individualConfig(shape team.Shape, format team.Format, squadSize int) team.Config {
	return team.Config{
		ID:               "team-1",
		Name:             "U8 Blue",
		Format:           format,
		SquadSize:        squadSize,
		Shape:            shape,
		SubstitutionType: team.SubstitutionIndividual,
	}
}

func TestPlan_FreshPeriodOneTwoTwo(t *testing.T) {
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 0, 0, 0),
		testPlayer("p2", 0, 0, 0),
		testPlayer("p3", 0, 0, 0),
		testPlayer("p4", 0, 0, 0),
		testPlayer("p5", 0, 0, 0),
		testPlayer("p6", 0, 0, 0),
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape22, team.Format5v5, 7),
		Squad:    squad,
		Period:   1,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if rec.Formation.GoalieID != "gk" {
		t.Fatalf("unexpected goalie: %s", rec.Formation.GoalieID)
	}
	if len(rec.Formation.Slots) != 6 {
		t.Fatalf("expected 4 field + 2 sub slots, got %d", len(rec.Formation.Slots))
	}
	if dups := rec.Formation.DuplicateIDs(); len(dups) != 0 {
		t.Fatalf("duplicate placements: %v", dups)
	}
	if len(rec.RotationQueue) != 6 {
		t.Fatalf("expected all 6 outfield players in queue, got %d", len(rec.RotationQueue))
	}
	if rec.NextOff == "" {
		t.Fatal("expected a next player to rotate off")
	}
}

func TestPlan_QueueCompositionMatchesActiveOutfield(t *testing.T) {
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 100, 0, 0),
		testPlayer("p2", 0, 200, 0),
		testPlayer("p3", 0, 0, 300),
		testPlayer("p4", 150, 0, 0),
		testPlayer("p5", 0, 250, 0),
		testPlayer("p6", 0, 0, 50),
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape121, team.Format5v5, 7),
		Squad:    squad,
		Period:   2,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	want := map[string]bool{"p1": true, "p2": true, "p3": true, "p4": true, "p5": true, "p6": true}
	if len(rec.RotationQueue) != len(want) {
		t.Fatalf("queue length %d, want %d", len(rec.RotationQueue), len(want))
	}
	for _, id := range rec.RotationQueue {
		if !want[id] {
			t.Fatalf("unexpected queue member %s", id)
		}
		delete(want, id)
	}
}

func TestPlan_TwoRoleAttackerSurplusBecomesDefender(t *testing.T) {
	// p1/p2 carry the biggest attacker surplus and must take defender
	// slots next; the four field players share total time, p5/p6 sit out.
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 0, 0, 400),
		testPlayer("p2", 100, 0, 300),
		testPlayer("p3", 300, 0, 100),
		testPlayer("p4", 400, 0, 0),
		testPlayer("p5", 500, 0, 100),
		testPlayer("p6", 300, 0, 400),
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape22, team.Format5v5, 7),
		Squad:    squad,
		Period:   2,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	defenders := map[string]bool{
		rec.Formation.Slots[formation.PositionLeftDefender]:  true,
		rec.Formation.Slots[formation.PositionRightDefender]: true,
	}
	if !defenders["p1"] || !defenders["p2"] {
		t.Fatalf("expected p1 and p2 in defender slots, got %v", rec.Formation.Slots)
	}
}

func TestPlan_ThreeRoleHighestDeficitTakesRole(t *testing.T) {
	// p1 never defended, p4 never attacked; both played a lot overall.
	// p5/p6 head to the bench on total time.
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 0, 450, 450),
		testPlayer("p2", 300, 300, 300),
		testPlayer("p3", 300, 300, 300),
		testPlayer("p4", 450, 450, 0),
		testPlayer("p5", 400, 400, 400),
		testPlayer("p6", 500, 500, 500),
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape121, team.Format5v5, 7),
		Squad:    squad,
		Period:   3,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if got := rec.Formation.Slots[formation.PositionDefender]; got != "p1" {
		t.Fatalf("defender slot = %s, want p1", got)
	}
	if got := rec.Formation.Slots[formation.PositionAttacker]; got != "p4" {
		t.Fatalf("attacker slot = %s, want p4", got)
	}
}

func TestPlan_UnderPopulatedSquadHasNoRotation(t *testing.T) {
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 100, 0, 0),
		testPlayer("p2", 0, 0, 200),
		testPlayer("p3", 50, 0, 0),
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape22, team.Format5v5, 5),
		Squad:    squad,
		Period:   1,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if len(rec.RotationQueue) != 0 {
		t.Fatalf("expected empty rotation queue, got %v", rec.RotationQueue)
	}
	if rec.NextOff != "" {
		t.Fatalf("expected no next-off, got %s", rec.NextOff)
	}
	if dups := rec.Formation.DuplicateIDs(); len(dups) != 0 {
		t.Fatalf("duplicate placements: %v", dups)
	}
}

func TestPlan_InactivePlayerDeferredToDeepestSlot(t *testing.T) {
	inactive := testPlayer("p7", 0, 0, 0)
	inactive.Stats.Inactive = true

	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 100, 0, 0),
		testPlayer("p2", 0, 100, 0),
		testPlayer("p3", 0, 0, 100),
		testPlayer("p4", 100, 0, 0),
		testPlayer("p5", 600, 0, 0),
		inactive,
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape121, team.Format5v5, 7),
		Squad:    squad,
		Period:   2,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	for _, pos := range []formation.Position{
		formation.PositionDefender,
		formation.PositionLeftMidfielder,
		formation.PositionRightMidfielder,
		formation.PositionAttacker,
	} {
		if rec.Formation.Slots[pos] == "p7" {
			t.Fatalf("inactive player placed on field at %s", pos)
		}
	}

	if got := rec.Formation.Slots[formation.Position("sub2")]; got != "p7" {
		t.Fatalf("inactive player should fill the deepest sub slot, got %s", got)
	}
	if got := rec.Formation.Slots[formation.Position("sub1")]; got != "p5" {
		t.Fatalf("active substitute should fill the first sub slot, got %s", got)
	}

	for _, id := range rec.RotationQueue {
		if id == "p7" {
			t.Fatal("inactive player must not join the rotation queue")
		}
	}
}

func TestPlan_NextOffComesFromField(t *testing.T) {
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 300, 0, 0),
		testPlayer("p2", 0, 400, 0),
		testPlayer("p3", 0, 0, 100),
		testPlayer("p4", 50, 0, 0),
		testPlayer("p5", 900, 0, 0), // most time: goes to the bench
		testPlayer("p6", 0, 0, 0),
	}

	rec, err := Plan(Input{
		Config:   individualConfig(team.Shape22, team.Format5v5, 7),
		Squad:    squad,
		Period:   2,
		GoalieID: "gk",
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	onField := make(map[string]bool)
	for _, pos := range []formation.Position{
		formation.PositionLeftDefender,
		formation.PositionRightDefender,
		formation.PositionLeftAttacker,
		formation.PositionRightAttacker,
	} {
		onField[rec.Formation.Slots[pos]] = true
	}

	if onField["p5"] {
		t.Fatal("highest-time player should start on the bench")
	}
	if !onField[rec.NextOff] {
		t.Fatalf("next-off %s is not on the field", rec.NextOff)
	}
	// Field players with the most time rotate off first: p1 leads the
	// field at 300 seconds.
	if rec.NextOff != "p1" {
		t.Fatalf("next-off = %s, want p1", rec.NextOff)
	}
	// Whoever sat out least on the bench still enters before p5.
	if rec.Formation.Slots[formation.Position("sub1")] != "p2" {
		t.Fatalf("sub1 = %s, want p2", rec.Formation.Slots[formation.Position("sub1")])
	}
}

func TestPlan_Deterministic(t *testing.T) {
	squad := []player.Player{
		testPlayer("gk", 0, 0, 0),
		testPlayer("p1", 120, 60, 30),
		testPlayer("p2", 30, 120, 60),
		testPlayer("p3", 60, 30, 120),
		testPlayer("p4", 90, 90, 90),
		testPlayer("p5", 10, 20, 30),
		testPlayer("p6", 30, 20, 10),
	}
	in := Input{
		Config:   individualConfig(team.Shape121, team.Format5v5, 7),
		Squad:    squad,
		Period:   2,
		GoalieID: "gk",
	}

	first, err := Plan(in)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	second, err := Plan(in)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plan is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestPlan_UnknownModeFallsBackToGoalieOnly(t *testing.T) {
	cfg := individualConfig(team.Shape33, team.Format5v5, 7) // 6 field slots never fit a 5v5 pitch

	rec, err := Plan(Input{
		Config:   cfg,
		Squad:    []player.Player{testPlayer("gk", 0, 0, 0)},
		Period:   1,
		GoalieID: "gk",
	})
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}

	if rec.Formation.GoalieID != "gk" {
		t.Fatalf("fallback formation must keep the goalie, got %+v", rec.Formation)
	}
	if len(rec.Formation.Slots) != 0 || len(rec.RotationQueue) != 0 || rec.NextOff != "" {
		t.Fatalf("fallback must carry no assignments: %+v", rec)
	}
}
