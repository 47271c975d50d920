package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rotaplan/rotaplan/internal/domain/match"
	qb "github.com/rotaplan/rotaplan/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	item, err := matchFromRow(row)
	if err != nil {
		return match.Match{}, false, err
	}

	return item, true, nil
}

func (r *MatchRepository) ListOpen(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", string(match.StatusOpen)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list open matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list open matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	previousFormation, err := encodePreviousFormation(item.Previous)
	if err != nil {
		return err
	}

	insertModel := matchInsertModel{
		PublicID:          item.ID,
		TeamID:            item.TeamID,
		Period:            item.Period,
		Status:            string(item.Status),
		GoalieID:          item.GoalieID,
		PreviousGoalieID:  item.PreviousGoalieID,
		PreviousFormation: previousFormation,
		SquadIDs:          pq.StringArray(item.SquadIDs),
		StartedAt:         item.StartedAt,
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    team_public_id = EXCLUDED.team_public_id,
    period = EXCLUDED.period,
    status = EXCLUDED.status,
    goalie_public_id = EXCLUDED.goalie_public_id,
    previous_goalie_public_id = EXCLUDED.previous_goalie_public_id,
    previous_formation = EXCLUDED.previous_formation,
    squad_player_ids = EXCLUDED.squad_player_ids,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build match upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	return nil
}
