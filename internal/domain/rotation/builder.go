package rotation

import (
	"sort"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/player"
)

// individualTwoRoleStrategy rotates players one by one on a defender/attacker
// shape (2-2, 3-3).
type individualTwoRoleStrategy struct{}

func (individualTwoRoleStrategy) Name() string { return "individual-2role" }

func (individualTwoRoleStrategy) Plan(in Input, mode formation.Mode) Recommendation {
	return planIndividual(in, mode, assignTwoRoleField)
}

// individualThreeRoleStrategy rotates players one by one on a shape with
// midfielders (1-2-1, 2-3-1).
type individualThreeRoleStrategy struct{}

func (individualThreeRoleStrategy) Name() string { return "individual-3role" }

func (individualThreeRoleStrategy) Plan(in Input, mode formation.Mode) Recommendation {
	return planIndividual(in, mode, assignThreeRoleField)
}

type fieldAssigner func(field []player.Player, mode formation.Mode, slots map[formation.Position]string)

func planIndividual(in Input, mode formation.Mode, assign fieldAssigner) Recommendation {
	active, inactive := outfieldPools(in.Squad, in.GoalieID)
	byTimeAsc(active)

	slots := make(map[formation.Position]string, len(mode.FieldPositions)+len(mode.SubstitutePositions))
	fieldCount := mode.FieldCount()

	if len(active) <= fieldCount {
		// Not enough players to rotate: fill the field by ascending time
		// and park everyone else, no queue.
		for i, pos := range mode.FieldPositions {
			if i >= len(active) {
				break
			}
			slots[pos] = active[i].ID
		}
		allocateSubstitutes(slots, mode.SubstitutePositions, nil, inactive)

		return Recommendation{
			Formation: formation.Formation{GoalieID: in.GoalieID, Slots: slots},
		}
	}

	field := append([]player.Player(nil), active[:fieldCount]...)
	bench := active[fieldCount:] // still ascending time: longest rest first on

	assign(field, mode, slots)
	allocateSubstitutes(slots, mode.SubstitutePositions, bench, inactive)
	queue, nextOff := buildQueue(field, bench)

	return Recommendation{
		Formation:     formation.Formation{GoalieID: in.GoalieID, Slots: slots},
		RotationQueue: queue,
		NextOff:       nextOff,
	}
}

// assignTwoRoleField corrects defender/attacker imbalance: the players with
// the largest attacker surplus take the defender slots.
func assignTwoRoleField(field []player.Player, mode formation.Mode, slots map[formation.Position]string) {
	ranked := append([]player.Player(nil), field...)
	sort.SliceStable(ranked, func(i, j int) bool {
		si := ranked[i].Stats.RoleSeconds(player.RoleAttacker) - ranked[i].Stats.RoleSeconds(player.RoleDefender)
		sj := ranked[j].Stats.RoleSeconds(player.RoleAttacker) - ranked[j].Stats.RoleSeconds(player.RoleDefender)
		return si > sj
	})

	defenderSlots := mode.PositionsForRole(player.RoleDefender)
	attackerSlots := mode.PositionsForRole(player.RoleAttacker)

	idx := 0
	for _, pos := range defenderSlots {
		if idx >= len(ranked) {
			return
		}
		slots[pos] = ranked[idx].ID
		idx++
	}
	for _, pos := range attackerSlots {
		if idx >= len(ranked) {
			return
		}
		slots[pos] = ranked[idx].ID
		idx++
	}
}

// assignThreeRoleField fills defender slots first by defender deficit, then
// attacker slots by attacker deficit, then hands the midfielder slots to
// whoever is left, highest midfield deficit first.
func assignThreeRoleField(field []player.Player, mode formation.Mode, slots map[formation.Position]string) {
	numRoles := len(mode.Roles)
	remaining := append([]player.Player(nil), field...)

	takeByDeficit := func(role player.Role) player.Player {
		best := 0
		for i := 1; i < len(remaining); i++ {
			if roleDeficit(remaining[i], numRoles, role) > roleDeficit(remaining[best], numRoles, role) {
				best = i
			}
		}
		picked := remaining[best]
		remaining = append(remaining[:best], remaining[best+1:]...)
		return picked
	}

	for _, pos := range mode.PositionsForRole(player.RoleDefender) {
		if len(remaining) == 0 {
			return
		}
		slots[pos] = takeByDeficit(player.RoleDefender).ID
	}
	for _, pos := range mode.PositionsForRole(player.RoleAttacker) {
		if len(remaining) == 0 {
			return
		}
		slots[pos] = takeByDeficit(player.RoleAttacker).ID
	}
	for _, pos := range mode.PositionsForRole(player.RoleMidfielder) {
		if len(remaining) == 0 {
			return
		}
		slots[pos] = takeByDeficit(player.RoleMidfielder).ID
	}
}

func byTimeAsc(players []player.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Stats.OutfieldSeconds < players[j].Stats.OutfieldSeconds
	})
}

func byTimeDesc(players []player.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Stats.OutfieldSeconds > players[j].Stats.OutfieldSeconds
	})
}
