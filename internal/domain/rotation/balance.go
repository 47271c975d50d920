package rotation

import "github.com/rotaplan/rotaplan/internal/domain/player"

// Required-role ratio thresholds. The band is deliberately asymmetric:
// players drift toward attacker duty more slowly than toward defender duty.
// Fixed design constants, do not "correct" to a symmetric pair.
const (
	mustDefendBelow = 0.8
	mustAttackAbove = 1.25
)

// roleDeficit is how far a player lags behind the fair share of time for a
// role: max(0, totalOutfield/numRoles - roleTime). Used to rank candidates;
// never persisted.
func roleDeficit(p player.Player, numRoles int, role player.Role) float64 {
	if numRoles <= 0 {
		return 0
	}
	fairShare := float64(p.Stats.OutfieldSeconds) / float64(numRoles)
	deficit := fairShare - float64(p.Stats.RoleSeconds(role))
	if deficit < 0 {
		return 0
	}
	return deficit
}

// requiredRole returns the role a player must play next under the two-role
// balancing rule, or "" when the player is flexible. The +1 on both sides
// avoids division by zero and dampens extreme early-period ratios.
func requiredRole(p player.Player) player.Role {
	ratio := float64(p.Stats.RoleSeconds(player.RoleDefender)+1) /
		float64(p.Stats.RoleSeconds(player.RoleAttacker)+1)

	switch {
	case ratio < mustDefendBelow:
		return player.RoleDefender
	case ratio > mustAttackAbove:
		return player.RoleAttacker
	default:
		return ""
	}
}

// pairRolesAllowed reports whether placing defenderID/attackerID in those
// roles violates either player's required role.
func pairRolesAllowed(required map[string]player.Role, defenderID, attackerID string) bool {
	if defenderID != "" && required[defenderID] == player.RoleAttacker {
		return false
	}
	if attackerID != "" && required[attackerID] == player.RoleDefender {
		return false
	}
	return true
}
