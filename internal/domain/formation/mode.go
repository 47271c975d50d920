package formation

import (
	"fmt"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

// Mode is the derived slot layout for a team configuration. It is
// recomputed on demand and never persisted.
type Mode struct {
	FieldPositions      []Position
	SubstitutePositions []Position // index 0 = next player on
	RoleByPosition      map[Position]player.Role
	FieldPairSlots      []PairSlot // paired mode only, goalie excluded
	Roles               []player.Role
}

// FieldCount returns the number of outfield positions, goalie excluded.
func (m Mode) FieldCount() int {
	return len(m.FieldPositions)
}

// PositionsForRole returns the field positions mapped to the given role,
// in pitch order.
func (m Mode) PositionsForRole(role player.Role) []Position {
	out := make([]Position, 0, len(m.FieldPositions))
	for _, pos := range m.FieldPositions {
		if m.RoleByPosition[pos] == role {
			out = append(out, pos)
		}
	}
	return out
}

var shapeLayouts = map[team.Shape]struct {
	positions []Position
	roles     map[Position]player.Role
	pairSlots []PairSlot
	roleSet   []player.Role
}{
	team.Shape22: {
		positions: []Position{PositionLeftDefender, PositionRightDefender, PositionLeftAttacker, PositionRightAttacker},
		roles: map[Position]player.Role{
			PositionLeftDefender:  player.RoleDefender,
			PositionRightDefender: player.RoleDefender,
			PositionLeftAttacker:  player.RoleAttacker,
			PositionRightAttacker: player.RoleAttacker,
		},
		pairSlots: []PairSlot{PairLeft, PairRight},
		roleSet:   []player.Role{player.RoleDefender, player.RoleAttacker},
	},
	team.Shape121: {
		positions: []Position{PositionDefender, PositionLeftMidfielder, PositionRightMidfielder, PositionAttacker},
		roles: map[Position]player.Role{
			PositionDefender:        player.RoleDefender,
			PositionLeftMidfielder:  player.RoleMidfielder,
			PositionRightMidfielder: player.RoleMidfielder,
			PositionAttacker:        player.RoleAttacker,
		},
		roleSet: []player.Role{player.RoleDefender, player.RoleMidfielder, player.RoleAttacker},
	},
	team.Shape231: {
		positions: []Position{
			PositionLeftDefender, PositionRightDefender,
			PositionLeftMidfielder, PositionCenterMidfielder, PositionRightMidfielder,
			PositionAttacker,
		},
		roles: map[Position]player.Role{
			PositionLeftDefender:     player.RoleDefender,
			PositionRightDefender:    player.RoleDefender,
			PositionLeftMidfielder:   player.RoleMidfielder,
			PositionCenterMidfielder: player.RoleMidfielder,
			PositionRightMidfielder:  player.RoleMidfielder,
			PositionAttacker:         player.RoleAttacker,
		},
		roleSet: []player.Role{player.RoleDefender, player.RoleMidfielder, player.RoleAttacker},
	},
	team.Shape33: {
		positions: []Position{
			PositionLeftDefender, PositionCenterDefender, PositionRightDefender,
			PositionLeftAttacker, PositionCenterAttacker, PositionRightAttacker,
		},
		roles: map[Position]player.Role{
			PositionLeftDefender:   player.RoleDefender,
			PositionCenterDefender: player.RoleDefender,
			PositionRightDefender:  player.RoleDefender,
			PositionLeftAttacker:   player.RoleAttacker,
			PositionCenterAttacker: player.RoleAttacker,
			PositionRightAttacker:  player.RoleAttacker,
		},
		pairSlots: []PairSlot{PairLeft, PairCenter, PairRight},
		roleSet:   []player.Role{player.RoleDefender, player.RoleAttacker},
	},
}

var fieldCountByFormat = map[team.Format]int{
	team.Format5v5: 4,
	team.Format7v7: 6,
}

// ResolveMode derives the slot layout for a team configuration. The second
// return value is false when the configuration does not describe a known
// mode; callers must then fall back to a goalie-only formation.
func ResolveMode(cfg team.Config) (Mode, bool) {
	layout, ok := shapeLayouts[cfg.Shape]
	if !ok {
		return Mode{}, false
	}

	wantField, ok := fieldCountByFormat[cfg.Format]
	if !ok || len(layout.positions) != wantField {
		return Mode{}, false
	}

	// One slot is always the goalkeeper.
	subCount := cfg.SquadSize - wantField - 1
	if subCount < 0 {
		return Mode{}, false
	}

	if cfg.SubstitutionType == team.SubstitutionPairs {
		if len(layout.pairSlots) == 0 {
			// Paired rotation only works for two-role shapes.
			return Mode{}, false
		}
		if (cfg.SquadSize-1)%2 != 0 {
			return Mode{}, false
		}
	}

	subs := make([]Position, 0, subCount)
	for i := 0; i < subCount; i++ {
		subs = append(subs, Position(fmt.Sprintf("sub%d", i+1)))
	}

	return Mode{
		FieldPositions:      layout.positions,
		SubstitutePositions: subs,
		RoleByPosition:      layout.roles,
		FieldPairSlots:      layout.pairSlots,
		Roles:               layout.roleSet,
	}, true
}
