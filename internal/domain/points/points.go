// Package points turns cumulative playing-time stats into the per-role
// point allocation shown on the post-match screen.
package points

import "github.com/rotaplan/rotaplan/internal/domain/player"

// RolePoints is the per-role allocation for one player. The total is always
// max(3, periods played as goalkeeper).
type RolePoints struct {
	Goalie     float64
	Defender   float64
	Midfielder float64
	Attacker   float64
}

func (rp RolePoints) Total() float64 {
	return rp.Goalie + rp.Defender + rp.Midfielder + rp.Attacker
}

// CalculateRolePoints grants one point per period in goal, then splits the
// remainder up to three points across the outfield roles proportionally to
// seconds played. A player with no outfield time keeps the remainder on the
// goalie share so the total stays conserved.
func CalculateRolePoints(stats player.Stats) RolePoints {
	goalie := float64(stats.PeriodsAsGoalie)
	remaining := 3.0 - goalie
	if remaining < 0 {
		remaining = 0
	}

	defenderSeconds := stats.RoleSeconds(player.RoleDefender)
	midfielderSeconds := stats.RoleSeconds(player.RoleMidfielder)
	attackerSeconds := stats.RoleSeconds(player.RoleAttacker)
	totalSeconds := defenderSeconds + midfielderSeconds + attackerSeconds

	if totalSeconds <= 0 {
		return RolePoints{Goalie: goalie + remaining}
	}

	scale := remaining / float64(totalSeconds)
	return RolePoints{
		Goalie:     goalie,
		Defender:   float64(defenderSeconds) * scale,
		Midfielder: float64(midfielderSeconds) * scale,
		Attacker:   float64(attackerSeconds) * scale,
	}
}
