package match

import "context"

// Repository describes match state persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListOpen(ctx context.Context) ([]Match, error)
	Upsert(ctx context.Context, item Match) error
}
