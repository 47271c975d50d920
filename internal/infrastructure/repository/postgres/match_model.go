package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/match"
)

type matchTableModel struct {
	ID                int64          `db:"id"`
	PublicID          string         `db:"public_id"`
	TeamID            string         `db:"team_public_id"`
	Period            int            `db:"period"`
	Status            string         `db:"status"`
	GoalieID          string         `db:"goalie_public_id"`
	PreviousGoalieID  string         `db:"previous_goalie_public_id"`
	PreviousFormation []byte         `db:"previous_formation"`
	SquadIDs          pq.StringArray `db:"squad_player_ids"`
	StartedAt         time.Time      `db:"started_at"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
	DeletedAt         *time.Time     `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID          string         `db:"public_id"`
	TeamID            string         `db:"team_public_id"`
	Period            int            `db:"period"`
	Status            string         `db:"status"`
	GoalieID          string         `db:"goalie_public_id"`
	PreviousGoalieID  string         `db:"previous_goalie_public_id"`
	PreviousFormation []byte         `db:"previous_formation"`
	SquadIDs          pq.StringArray `db:"squad_player_ids"`
	StartedAt         time.Time      `db:"started_at"`
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	item := match.Match{
		ID:               row.PublicID,
		TeamID:           row.TeamID,
		Period:           row.Period,
		Status:           match.Status(row.Status),
		GoalieID:         row.GoalieID,
		PreviousGoalieID: row.PreviousGoalieID,
		SquadIDs:         append([]string(nil), row.SquadIDs...),
		StartedAt:        row.StartedAt,
		UpdatedAt:        row.UpdatedAt,
	}

	if len(row.PreviousFormation) > 0 {
		var previous formation.Formation
		if err := sonic.Unmarshal(row.PreviousFormation, &previous); err != nil {
			return match.Match{}, fmt.Errorf("decode previous_formation for match %s: %w", row.PublicID, err)
		}
		item.Previous = &previous
	}

	return item, nil
}

func encodePreviousFormation(previous *formation.Formation) ([]byte, error) {
	if previous == nil {
		return nil, nil
	}
	payload, err := sonic.Marshal(previous)
	if err != nil {
		return nil, fmt.Errorf("encode previous_formation: %w", err)
	}
	return payload, nil
}
