package rotation

import "github.com/rotaplan/rotaplan/internal/domain/player"

// buildQueue produces the rotation order: field players most-time-first
// (they come off in that order), then active bench players least-time-first
// (they come on in that order). The next player off is always the head of
// the field sub-list, never a substitute.
func buildQueue(field, benchAsc []player.Player) ([]string, string) {
	if len(field) == 0 {
		return nil, ""
	}

	fieldDesc := append([]player.Player(nil), field...)
	byTimeDesc(fieldDesc)

	queue := make([]string, 0, len(fieldDesc)+len(benchAsc))
	for _, p := range fieldDesc {
		queue = append(queue, p.ID)
	}
	for _, p := range benchAsc {
		queue = append(queue, p.ID)
	}

	return queue, fieldDesc[0].ID
}
