package postgres

import (
	"testing"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/player"
)

func TestPlayerFromRowDecodesRoleSeconds(t *testing.T) {
	row := playerTableModel{
		PublicID:        "p1",
		TeamID:          "team-1",
		Name:            "Mika",
		SecondsByRole:   []byte(`{"DEF":300,"ATT":120}`),
		OutfieldSeconds: 420,
	}

	item, err := playerFromRow(row)
	if err != nil {
		t.Fatalf("playerFromRow: %v", err)
	}
	if item.Stats.RoleSeconds(player.RoleDefender) != 300 {
		t.Fatalf("defender seconds = %d", item.Stats.RoleSeconds(player.RoleDefender))
	}
	if item.Stats.RoleSeconds(player.RoleGoalie) != 0 {
		t.Fatalf("missing role must read as zero")
	}
}

func TestPlayerFromRowRejectsBadPayload(t *testing.T) {
	row := playerTableModel{PublicID: "p1", SecondsByRole: []byte(`{`)}

	if _, err := playerFromRow(row); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodePreviousFormationNilStaysNil(t *testing.T) {
	payload, err := encodePreviousFormation(nil)
	if err != nil {
		t.Fatalf("encodePreviousFormation: %v", err)
	}
	if payload != nil {
		t.Fatalf("payload = %q, want nil", payload)
	}
}

func TestMatchFromRowRestoresFormation(t *testing.T) {
	played := formation.Formation{
		GoalieID: "p1",
		Slots:    map[formation.Position]string{formation.PositionLeftDefender: "p2"},
	}
	payload, err := encodePreviousFormation(&played)
	if err != nil {
		t.Fatalf("encodePreviousFormation: %v", err)
	}

	item, err := matchFromRow(matchTableModel{
		PublicID:          "m1",
		TeamID:            "team-1",
		Period:            2,
		Status:            "open",
		GoalieID:          "p2",
		PreviousGoalieID:  "p1",
		PreviousFormation: payload,
		SquadIDs:          []string{"p1", "p2"},
	})
	if err != nil {
		t.Fatalf("matchFromRow: %v", err)
	}
	if item.Previous == nil || item.Previous.Slots[formation.PositionLeftDefender] != "p2" {
		t.Fatalf("previous formation = %+v", item.Previous)
	}
}
