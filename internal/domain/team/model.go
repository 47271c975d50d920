package team

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat           = errors.New("invalid pitch format")
	ErrInvalidSquadSize        = errors.New("invalid squad size")
	ErrInvalidShape            = errors.New("invalid formation shape")
	ErrInvalidSubstitutionType = errors.New("invalid substitution type")
)

// Format is the pitch size class a team plays on.
type Format string

const (
	Format5v5 Format = "5v5"
	Format7v7 Format = "7v7"
)

// SubstitutionType selects how rotations are organised during a match.
type SubstitutionType string

const (
	// SubstitutionIndividual rotates players one by one.
	SubstitutionIndividual SubstitutionType = "individual"
	// SubstitutionPairs rotates fixed defender/attacker pairs together.
	SubstitutionPairs SubstitutionType = "pairs"
)

// Shape identifies the outfield formation, goalkeeper excluded.
type Shape string

const (
	Shape22  Shape = "2-2"
	Shape121 Shape = "1-2-1"
	Shape231 Shape = "2-3-1"
	Shape33  Shape = "3-3"
)

// Config is the per-match team configuration. It stays immutable for the
// duration of a match and may only change between matches.
type Config struct {
	ID               string
	Name             string
	Format           Format
	SquadSize        int
	Shape            Shape
	SubstitutionType SubstitutionType
}

func (c Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("team name is required")
	}

	switch c.Format {
	case Format5v5, Format7v7:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFormat, c.Format)
	}

	switch c.Shape {
	case Shape22, Shape121, Shape231, Shape33:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidShape, c.Shape)
	}

	switch c.SubstitutionType {
	case SubstitutionIndividual, SubstitutionPairs:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSubstitutionType, c.SubstitutionType)
	}

	if c.SquadSize < 5 || c.SquadSize > 15 {
		return fmt.Errorf("%w: %d", ErrInvalidSquadSize, c.SquadSize)
	}

	return nil
}
