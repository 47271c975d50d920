package memory

import (
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
)

const (
	TeamIDBlues = "u10-blues"
	TeamIDReds  = "u12-reds"
)

// SeedTeams returns a couple of ready-to-use team configurations so the
// service is usable out of the box with the memory driver.
func SeedTeams() []team.Config {
	return []team.Config{
		{
			ID:               TeamIDBlues,
			Name:             "U10 Blues",
			Format:           team.Format5v5,
			SquadSize:        7,
			Shape:            team.Shape22,
			SubstitutionType: team.SubstitutionIndividual,
		},
		{
			ID:               TeamIDReds,
			Name:             "U12 Reds",
			Format:           team.Format7v7,
			SquadSize:        10,
			Shape:            team.Shape231,
			SubstitutionType: team.SubstitutionIndividual,
		},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "blues-01", TeamID: TeamIDBlues, Name: "Mika", Number: 1},
		{ID: "blues-02", TeamID: TeamIDBlues, Name: "Sam", Number: 2},
		{ID: "blues-03", TeamID: TeamIDBlues, Name: "Noor", Number: 3},
		{ID: "blues-04", TeamID: TeamIDBlues, Name: "Theo", Number: 4},
		{ID: "blues-05", TeamID: TeamIDBlues, Name: "Lena", Number: 5},
		{ID: "blues-06", TeamID: TeamIDBlues, Name: "Ravi", Number: 6},
		{ID: "blues-07", TeamID: TeamIDBlues, Name: "Jonas", Number: 7},
		{ID: "reds-01", TeamID: TeamIDReds, Name: "Ada", Number: 1},
		{ID: "reds-02", TeamID: TeamIDReds, Name: "Beni", Number: 2},
		{ID: "reds-03", TeamID: TeamIDReds, Name: "Cato", Number: 3},
		{ID: "reds-04", TeamID: TeamIDReds, Name: "Dina", Number: 4},
		{ID: "reds-05", TeamID: TeamIDReds, Name: "Elio", Number: 5},
		{ID: "reds-06", TeamID: TeamIDReds, Name: "Fay", Number: 6},
		{ID: "reds-07", TeamID: TeamIDReds, Name: "Gus", Number: 7},
		{ID: "reds-08", TeamID: TeamIDReds, Name: "Hana", Number: 8},
		{ID: "reds-09", TeamID: TeamIDReds, Name: "Iver", Number: 9},
		{ID: "reds-10", TeamID: TeamIDReds, Name: "Juno", Number: 10},
	}
}
