package rotation

import (
	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/player"
)

// allocateSubstitutes fills the ordered substitute slots. Active bench
// players take the front slots in ascending-time order so whoever sat out
// longest enters first; inactive players fill the deepest slots in roster
// order so they are the last to be recalled.
func allocateSubstitutes(
	slots map[formation.Position]string,
	subPositions []formation.Position,
	benchActiveAsc []player.Player,
	inactiveRoster []player.Player,
) {
	front := 0
	for _, p := range benchActiveAsc {
		if front >= len(subPositions) {
			return
		}
		slots[subPositions[front]] = p.ID
		front++
	}

	back := len(subPositions) - 1
	for _, p := range inactiveRoster {
		if back < front {
			return
		}
		slots[subPositions[back]] = p.ID
		back--
	}
}
