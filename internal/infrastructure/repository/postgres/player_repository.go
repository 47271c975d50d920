package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	qb "github.com/rotaplan/rotaplan/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by team: %w", err)
	}

	return playersFromRows(rows)
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, teamID string, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.In("public_id", stringSliceToAny(playerIDs)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	byID := make(map[string]playerTableModel, len(rows))
	for _, row := range rows {
		byID[row.PublicID] = row
	}

	// Preserve the requested order so callers get deterministic slices.
	ordered := make([]playerTableModel, 0, len(rows))
	for _, id := range playerIDs {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}

	return playersFromRows(ordered)
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) error {
	secondsByRole, err := encodeSecondsByRole(item.Stats.SecondsByRole)
	if err != nil {
		return err
	}

	insertModel := playerInsertModel{
		PublicID:        item.ID,
		TeamID:          item.TeamID,
		Name:            item.Name,
		Number:          item.Number,
		Inactive:        item.Stats.Inactive,
		Captain:         item.Stats.Captain,
		SecondsByRole:   secondsByRole,
		OutfieldSeconds: item.Stats.OutfieldSeconds,
		PeriodsAsGoalie: item.Stats.PeriodsAsGoalie,
	}

	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    team_public_id = EXCLUDED.team_public_id,
    name = EXCLUDED.name,
    number = EXCLUDED.number,
    inactive = EXCLUDED.inactive,
    captain = EXCLUDED.captain,
    seconds_by_role = EXCLUDED.seconds_by_role,
    outfield_seconds = EXCLUDED.outfield_seconds,
    periods_as_goalie = EXCLUDED.periods_as_goalie,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build player upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) UpdateStats(ctx context.Context, teamID, playerID string, stats player.Stats) error {
	secondsByRole, err := encodeSecondsByRole(stats.SecondsByRole)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("players").
		Set("inactive", stats.Inactive).
		Set("captain", stats.Captain).
		Set("seconds_by_role", secondsByRole).
		Set("outfield_seconds", stats.OutfieldSeconds).
		Set("periods_as_goalie", stats.PeriodsAsGoalie).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", playerID),
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build player stats update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player stats: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read player stats update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %s not found in team %s", playerID, teamID)
	}

	return nil
}

func playersFromRows(rows []playerTableModel) ([]player.Player, error) {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		item, err := playerFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
