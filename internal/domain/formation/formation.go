package formation

// Position is a named slot on the pitch or on the bench.
type Position string

const (
	PositionGoalie Position = "goalie"

	PositionDefender       Position = "defender"
	PositionLeftDefender   Position = "leftDefender"
	PositionCenterDefender Position = "centerDefender"
	PositionRightDefender  Position = "rightDefender"

	PositionLeftMidfielder   Position = "leftMidfielder"
	PositionCenterMidfielder Position = "centerMidfielder"
	PositionRightMidfielder  Position = "rightMidfielder"

	PositionAttacker       Position = "attacker"
	PositionLeftAttacker   Position = "leftAttacker"
	PositionCenterAttacker Position = "centerAttacker"
	PositionRightAttacker  Position = "rightAttacker"
)

// PairSlot is a named slot for a defender/attacker pair in paired
// substitution mode.
type PairSlot string

const (
	PairLeft       PairSlot = "leftPair"
	PairCenter     PairSlot = "centerPair"
	PairRight      PairSlot = "rightPair"
	PairSubstitute PairSlot = "subPair"
)

// Pair is a fixed defender/attacker unit that rotates together. Empty ids
// mark a slot the engine could not fill.
type Pair struct {
	DefenderID string
	AttackerID string
}

func (p Pair) Contains(playerID string) bool {
	return playerID != "" && (p.DefenderID == playerID || p.AttackerID == playerID)
}

func (p Pair) Empty() bool {
	return p.DefenderID == "" && p.AttackerID == ""
}

// Formation maps slots to player ids for one period. Individual mode fills
// Slots, paired mode fills Pairs; GoalieID is always set when known.
type Formation struct {
	GoalieID string
	Slots    map[Position]string
	Pairs    map[PairSlot]Pair
}

// GoalieOnly is the fallback formation when no mode definition matches the
// team configuration.
func GoalieOnly(goalieID string) Formation {
	return Formation{GoalieID: goalieID}
}

func (f Formation) Clone() Formation {
	copied := Formation{GoalieID: f.GoalieID}
	if f.Slots != nil {
		copied.Slots = make(map[Position]string, len(f.Slots))
		for pos, id := range f.Slots {
			copied.Slots[pos] = id
		}
	}
	if f.Pairs != nil {
		copied.Pairs = make(map[PairSlot]Pair, len(f.Pairs))
		for slot, pair := range f.Pairs {
			copied.Pairs[slot] = pair
		}
	}
	return copied
}

// PlayerIDs returns every non-empty player id placed in the formation,
// goalie included.
func (f Formation) PlayerIDs() []string {
	out := make([]string, 0, len(f.Slots)+2*len(f.Pairs)+1)
	if f.GoalieID != "" {
		out = append(out, f.GoalieID)
	}
	for _, id := range f.Slots {
		if id != "" {
			out = append(out, id)
		}
	}
	for _, pair := range f.Pairs {
		if pair.DefenderID != "" {
			out = append(out, pair.DefenderID)
		}
		if pair.AttackerID != "" {
			out = append(out, pair.AttackerID)
		}
	}
	return out
}

// DuplicateIDs reports player ids that occupy more than one slot. A correct
// formation always returns an empty slice.
func (f Formation) DuplicateIDs() []string {
	seen := make(map[string]int)
	for _, id := range f.PlayerIDs() {
		seen[id]++
	}

	var dups []string
	for id, count := range seen {
		if count > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

// PairFor returns the slot and pair containing the player, if any.
func (f Formation) PairFor(playerID string) (PairSlot, Pair, bool) {
	for slot, pair := range f.Pairs {
		if pair.Contains(playerID) {
			return slot, pair, true
		}
	}
	return "", Pair{}, false
}
