package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaplan/rotaplan/internal/domain/team"
	qb "github.com/rotaplan/rotaplan/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Config, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Config, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Config, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Config{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Config{}, false, nil
		}
		return team.Config{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, cfg team.Config) error {
	insertModel := teamInsertModel{
		PublicID:         cfg.ID,
		Name:             cfg.Name,
		Format:           string(cfg.Format),
		SquadSize:        cfg.SquadSize,
		Shape:            string(cfg.Shape),
		SubstitutionType: string(cfg.SubstitutionType),
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    format = EXCLUDED.format,
    squad_size = EXCLUDED.squad_size,
    shape = EXCLUDED.shape,
    substitution_type = EXCLUDED.substitution_type,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build team upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	return nil
}

func teamFromRow(row teamTableModel) team.Config {
	return team.Config{
		ID:               row.PublicID,
		Name:             row.Name,
		Format:           team.Format(row.Format),
		SquadSize:        row.SquadSize,
		Shape:            team.Shape(row.Shape),
		SubstitutionType: team.SubstitutionType(row.SubstitutionType),
	}
}
