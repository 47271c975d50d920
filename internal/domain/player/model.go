package player

import "fmt"

// Role represents the on-pitch role categories used by the rotation engine.
type Role string

const (
	RoleGoalie     Role = "GK"
	RoleDefender   Role = "DEF"
	RoleMidfielder Role = "MID"
	RoleAttacker   Role = "ATT"
)

var AllRoles = map[Role]struct{}{
	RoleGoalie:     {},
	RoleDefender:   {},
	RoleMidfielder: {},
	RoleAttacker:   {},
}

// OutfieldRoles lists the roles eligible for rotation, in pitch order.
var OutfieldRoles = []Role{RoleDefender, RoleMidfielder, RoleAttacker}

// Stats holds cumulative playing-time figures for one player. The figures
// are aggregated externally after each period; the rotation engine only
// reads them.
type Stats struct {
	Inactive        bool
	Captain         bool
	SecondsByRole   map[Role]int
	OutfieldSeconds int
	PeriodsAsGoalie int
}

// RoleSeconds returns cumulative seconds in a role. Missing data counts as zero.
func (s Stats) RoleSeconds(role Role) int {
	if s.SecondsByRole == nil {
		return 0
	}
	return s.SecondsByRole[role]
}

// Clone returns a deep copy so callers can hand stats to the engine as
// read-only input.
func (s Stats) Clone() Stats {
	copied := s
	if s.SecondsByRole != nil {
		copied.SecondsByRole = make(map[Role]int, len(s.SecondsByRole))
		for role, seconds := range s.SecondsByRole {
			copied.SecondsByRole[role] = seconds
		}
	}
	return copied
}

// Player is a squad member tracked by the rotation engine.
type Player struct {
	ID     string
	TeamID string
	Name   string
	Number int
	Stats  Stats
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Number < 0 {
		return fmt.Errorf("player number cannot be negative")
	}
	for role := range p.Stats.SecondsByRole {
		if _, ok := AllRoles[role]; !ok {
			return fmt.Errorf("invalid role in player stats: %s", role)
		}
	}

	return nil
}

func (p Player) Clone() Player {
	copied := p
	copied.Stats = p.Stats.Clone()
	return copied
}
