package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaplan/rotaplan/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo teams and rosters into an empty database so
// a fresh postgres deployment behaves like the memory driver.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, cfg := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name, format, squad_size, shape, substitution_type)
VALUES (:public_id, :name, :format, :squad_size, :shape, :substitution_type)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":         cfg.ID,
			"name":              cfg.Name,
			"format":            string(cfg.Format),
			"squad_size":        cfg.SquadSize,
			"shape":             string(cfg.Shape),
			"substitution_type": string(cfg.SubstitutionType),
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", cfg.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", cfg.ID, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		secondsByRole, err := encodeSecondsByRole(p.Stats.SecondsByRole)
		if err != nil {
			return err
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (public_id, team_public_id, name, number, seconds_by_role)
VALUES (:public_id, :team_public_id, :name, :number, :seconds_by_role)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       p.ID,
			"team_public_id":  p.TeamID,
			"name":            p.Name,
			"number":          p.Number,
			"seconds_by_role": secondsByRole,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap seed: %w", err)
	}

	return nil
}
