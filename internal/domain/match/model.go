package match

import (
	"fmt"
	"time"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
)

// Status tracks a match through its lifecycle.
type Status string

const (
	StatusOpen     Status = "open"
	StatusFinished Status = "finished"
)

// Match holds the between-period state the rotation engine needs: the
// current period, the previous arrangement, and the goalkeeper handover.
// Playing-time stats live on the players and are accumulated externally.
type Match struct {
	ID               string
	TeamID           string
	Period           int
	Status           Status
	GoalieID         string
	PreviousGoalieID string
	Previous         *formation.Formation
	SquadIDs         []string
	StartedAt        time.Time
	UpdatedAt        time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.TeamID == "" {
		return fmt.Errorf("match team id is required")
	}
	if m.Period < 1 {
		return fmt.Errorf("match period must be at least 1")
	}
	if m.GoalieID == "" {
		return fmt.Errorf("match goalie id is required")
	}

	switch m.Status {
	case StatusOpen, StatusFinished:
	default:
		return fmt.Errorf("invalid match status: %s", m.Status)
	}

	return nil
}

func (m Match) Clone() Match {
	copied := m
	copied.SquadIDs = append([]string(nil), m.SquadIDs...)
	if m.Previous != nil {
		prev := m.Previous.Clone()
		copied.Previous = &prev
	}
	return copied
}
