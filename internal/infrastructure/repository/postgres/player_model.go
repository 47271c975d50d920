package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/rotaplan/rotaplan/internal/domain/player"
)

type playerTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	TeamID          string     `db:"team_public_id"`
	Name            string     `db:"name"`
	Number          int        `db:"number"`
	Inactive        bool       `db:"inactive"`
	Captain         bool       `db:"captain"`
	SecondsByRole   []byte     `db:"seconds_by_role"`
	OutfieldSeconds int        `db:"outfield_seconds"`
	PeriodsAsGoalie int        `db:"periods_as_goalie"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID        string `db:"public_id"`
	TeamID          string `db:"team_public_id"`
	Name            string `db:"name"`
	Number          int    `db:"number"`
	Inactive        bool   `db:"inactive"`
	Captain         bool   `db:"captain"`
	SecondsByRole   []byte `db:"seconds_by_role"`
	OutfieldSeconds int    `db:"outfield_seconds"`
	PeriodsAsGoalie int    `db:"periods_as_goalie"`
}

func playerFromRow(row playerTableModel) (player.Player, error) {
	secondsByRole := map[player.Role]int{}
	if len(row.SecondsByRole) > 0 {
		if err := sonic.Unmarshal(row.SecondsByRole, &secondsByRole); err != nil {
			return player.Player{}, fmt.Errorf("decode seconds_by_role for player %s: %w", row.PublicID, err)
		}
	}

	return player.Player{
		ID:     row.PublicID,
		TeamID: row.TeamID,
		Name:   row.Name,
		Number: row.Number,
		Stats: player.Stats{
			Inactive:        row.Inactive,
			Captain:         row.Captain,
			SecondsByRole:   secondsByRole,
			OutfieldSeconds: row.OutfieldSeconds,
			PeriodsAsGoalie: row.PeriodsAsGoalie,
		},
	}, nil
}

func encodeSecondsByRole(secondsByRole map[player.Role]int) ([]byte, error) {
	if secondsByRole == nil {
		secondsByRole = map[player.Role]int{}
	}
	payload, err := sonic.Marshal(secondsByRole)
	if err != nil {
		return nil, fmt.Errorf("encode seconds_by_role: %w", err)
	}
	return payload, nil
}
