package team

import "context"

// Repository describes team configuration persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Config, error)
	GetByID(ctx context.Context, teamID string) (Config, bool, error)
	Upsert(ctx context.Context, cfg Config) error
}
