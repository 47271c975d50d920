package rotation

import (
	"errors"
	"fmt"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

var (
	// ErrUnknownMode marks a team configuration the resolver cannot map to
	// a slot layout. The returned recommendation still carries the
	// goalie-only fallback formation so callers can render something.
	ErrUnknownMode = errors.New("unknown team configuration")
)

// Input carries everything one planning invocation needs. The engine treats
// all of it as read-only and returns freshly constructed values.
type Input struct {
	Config           team.Config
	Squad            []player.Player
	Previous         *formation.Formation
	Period           int
	GoalieID         string
	PreviousGoalieID string
}

// Recommendation is the engine output for one period: the next formation,
// the order in which players rotate, and who comes off first.
type Recommendation struct {
	Formation     formation.Formation
	RotationQueue []string
	NextOff       string
}

// Strategy computes a recommendation for one substitution style and shape
// family.
type Strategy interface {
	Name() string
	Plan(in Input, mode formation.Mode) Recommendation
}

// SelectStrategy picks the strategy for a configuration whose mode has
// already been resolved.
func SelectStrategy(cfg team.Config, mode formation.Mode) (Strategy, error) {
	if cfg.SubstitutionType == team.SubstitutionPairs {
		return pairedStrategy{}, nil
	}

	switch len(mode.Roles) {
	case 2:
		return individualTwoRoleStrategy{}, nil
	case 3:
		return individualThreeRoleStrategy{}, nil
	default:
		return nil, fmt.Errorf("no strategy for %d-role shape %s", len(mode.Roles), cfg.Shape)
	}
}

// Plan resolves the mode for the configuration and runs the matching
// strategy. On an unknown configuration it returns the goalie-only fallback
// together with ErrUnknownMode so callers can tell fallback from
// recommendation.
func Plan(in Input) (Recommendation, error) {
	mode, ok := formation.ResolveMode(in.Config)
	if !ok {
		return Recommendation{Formation: formation.GoalieOnly(in.GoalieID)}, ErrUnknownMode
	}

	strat, err := SelectStrategy(in.Config, mode)
	if err != nil {
		return Recommendation{Formation: formation.GoalieOnly(in.GoalieID)}, fmt.Errorf("%w: %v", ErrUnknownMode, err)
	}

	return strat.Plan(in, mode), nil
}

// outfieldPools splits the squad into active and inactive outfield players,
// the incoming goalkeeper excluded. Slice order follows roster order.
func outfieldPools(squad []player.Player, goalieID string) (active, inactive []player.Player) {
	for _, p := range squad {
		if p.ID == goalieID {
			continue
		}
		if p.Stats.Inactive {
			inactive = append(inactive, p)
			continue
		}
		active = append(active, p)
	}
	return active, inactive
}
