package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	GetByIDs(ctx context.Context, teamID string, playerIDs []string) ([]Player, error)
	Upsert(ctx context.Context, item Player) error
	UpdateStats(ctx context.Context, teamID, playerID string, stats Stats) error
}

// StatsDelta carries one period's worth of externally aggregated playing
// time for a single player.
type StatsDelta struct {
	PlayerID       string
	SecondsByRole  map[Role]int
	PlayedAsGoalie bool
}
