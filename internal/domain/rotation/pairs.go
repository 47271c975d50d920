package rotation

import (
	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/player"
)

// balancedPeriod is the period in which role balance strictly dominates
// pair continuity: continuity is skipped outright when it would violate a
// required role, instead of falling back to the previous roles.
const balancedPeriod = 3

// orderedPairSlots fixes the iteration order over previous-period pairs so
// planning stays deterministic.
var orderedPairSlots = []formation.PairSlot{
	formation.PairLeft,
	formation.PairCenter,
	formation.PairRight,
	formation.PairSubstitute,
}

// pairedStrategy keeps defender/attacker pairs together across periods,
// alternating each member's role, and rotates whole pairs on and off.
type pairedStrategy struct{}

func (pairedStrategy) Name() string { return "pairs" }

func (pairedStrategy) Plan(in Input, mode formation.Mode) Recommendation {
	balanced := in.Period == balancedPeriod

	active, _ := outfieldPools(in.Squad, in.GoalieID)
	pool := newPairPool(active)

	required := make(map[string]player.Role, len(active))
	for _, p := range active {
		required[p.ID] = requiredRole(p)
	}

	var pairs []formation.Pair

	if pair, ok := repairGoalieHandover(in, pool, required, balanced); ok {
		pairs = append(pairs, pair)
	}
	pairs = append(pairs, carryPreviousPairs(in.Previous, pool, required, balanced)...)
	pairs = append(pairs, matchByRequiredRole(pool, required)...)
	pairs = append(pairs, matchLeftovers(pool, in.Previous)...)

	// A lone leftover becomes a half pair so nobody silently drops out of
	// the rotation.
	for _, p := range pool.remaining() {
		pool.take(p.ID)
		if previousRole(in.Previous, p.ID) == player.RoleDefender {
			pairs = append(pairs, formation.Pair{AttackerID: p.ID})
		} else {
			pairs = append(pairs, formation.Pair{DefenderID: p.ID})
		}
	}

	seconds := outfieldSecondsIndex(in.Squad)
	return assemblePaired(in.GoalieID, mode, pairs, seconds)
}

// repairGoalieHandover re-pairs the player orphaned by the goalkeeper
// change with the outgoing goalkeeper, flipping the orphan's previous role
// when the required roles allow it.
func repairGoalieHandover(in Input, pool *pairPool, required map[string]player.Role, balanced bool) (formation.Pair, bool) {
	if in.Previous == nil || in.PreviousGoalieID == "" || in.GoalieID == in.PreviousGoalieID {
		return formation.Pair{}, false
	}

	_, prevPair, ok := in.Previous.PairFor(in.GoalieID)
	if !ok {
		return formation.Pair{}, false
	}

	orphanID := prevPair.DefenderID
	orphanWasDefender := true
	if orphanID == in.GoalieID {
		orphanID = prevPair.AttackerID
		orphanWasDefender = false
	}

	outgoingID := in.PreviousGoalieID
	if !pool.has(orphanID) || !pool.has(outgoingID) {
		return formation.Pair{}, false
	}

	// Flip the orphan's role so their defender/attacker time keeps
	// alternating.
	flipped := formation.Pair{DefenderID: outgoingID, AttackerID: orphanID}
	if !orphanWasDefender {
		flipped = formation.Pair{DefenderID: orphanID, AttackerID: outgoingID}
	}

	if pairRolesAllowed(required, flipped.DefenderID, flipped.AttackerID) {
		pool.take(orphanID)
		pool.take(outgoingID)
		return flipped, true
	}

	if !balanced {
		kept := formation.Pair{DefenderID: orphanID, AttackerID: outgoingID}
		if !orphanWasDefender {
			kept = formation.Pair{DefenderID: outgoingID, AttackerID: orphanID}
		}
		if pairRolesAllowed(required, kept.DefenderID, kept.AttackerID) {
			pool.take(orphanID)
			pool.take(outgoingID)
			return kept, true
		}
	}

	// Incompatible either way: both players fall through to the later
	// matching steps.
	return formation.Pair{}, false
}

// carryPreviousPairs keeps surviving pairs together with their roles
// swapped. When the swap breaks a required role the original roles are
// tried instead, unless the balanced variant is active, in which case the
// pair dissolves.
func carryPreviousPairs(previous *formation.Formation, pool *pairPool, required map[string]player.Role, balanced bool) []formation.Pair {
	if previous == nil {
		return nil
	}

	var out []formation.Pair
	for _, slot := range orderedPairSlots {
		prev, ok := previous.Pairs[slot]
		if !ok {
			continue
		}
		if !pool.has(prev.DefenderID) || !pool.has(prev.AttackerID) {
			continue
		}

		swapped := formation.Pair{DefenderID: prev.AttackerID, AttackerID: prev.DefenderID}
		if pairRolesAllowed(required, swapped.DefenderID, swapped.AttackerID) {
			pool.take(prev.DefenderID)
			pool.take(prev.AttackerID)
			out = append(out, swapped)
			continue
		}

		if !balanced && pairRolesAllowed(required, prev.DefenderID, prev.AttackerID) {
			pool.take(prev.DefenderID)
			pool.take(prev.AttackerID)
			out = append(out, formation.Pair{DefenderID: prev.DefenderID, AttackerID: prev.AttackerID})
			continue
		}
		// Pair dissolves; both players stay in the pool.
	}

	return out
}

// matchByRequiredRole pairs constrained players: must-defend with
// must-attack first, then each must set against the flexible set. Greedy
// pop-from-end, no backtracking; infeasible constraint sets degrade to
// best-effort pairing in later steps.
func matchByRequiredRole(pool *pairPool, required map[string]player.Role) []formation.Pair {
	var mustDefend, mustAttack, flexible []string
	for _, p := range pool.remaining() {
		switch required[p.ID] {
		case player.RoleDefender:
			mustDefend = append(mustDefend, p.ID)
		case player.RoleAttacker:
			mustAttack = append(mustAttack, p.ID)
		default:
			flexible = append(flexible, p.ID)
		}
	}

	var out []formation.Pair
	pair := func(defenderID, attackerID string) {
		pool.take(defenderID)
		pool.take(attackerID)
		out = append(out, formation.Pair{DefenderID: defenderID, AttackerID: attackerID})
	}

	for len(mustDefend) > 0 && len(mustAttack) > 0 {
		pair(popLast(&mustDefend), popLast(&mustAttack))
	}
	for len(mustDefend) > 0 && len(flexible) > 0 {
		pair(popLast(&mustDefend), popLast(&flexible))
	}
	for len(mustAttack) > 0 && len(flexible) > 0 {
		pair(popLast(&flexible), popLast(&mustAttack))
	}

	// Whatever could not be satisfied stays in the pool; the flexible
	// remainder is matched by previous-role preference next.
	return out
}

// matchLeftovers pairs the remaining players using the inverse of their
// previous-period role as a preference, opposite preferences first.
func matchLeftovers(pool *pairPool, previous *formation.Formation) []formation.Pair {
	var wantDefend, wantAttack, noPreference []string
	for _, p := range pool.remaining() {
		switch previousRole(previous, p.ID) {
		case player.RoleAttacker:
			wantDefend = append(wantDefend, p.ID)
		case player.RoleDefender:
			wantAttack = append(wantAttack, p.ID)
		default:
			noPreference = append(noPreference, p.ID)
		}
	}

	var out []formation.Pair
	pair := func(defenderID, attackerID string) {
		pool.take(defenderID)
		pool.take(attackerID)
		out = append(out, formation.Pair{DefenderID: defenderID, AttackerID: attackerID})
	}

	for len(wantDefend) > 0 && len(wantAttack) > 0 {
		pair(popLast(&wantDefend), popLast(&wantAttack))
	}
	for len(wantDefend) > 0 && len(noPreference) > 0 {
		pair(popLast(&wantDefend), popLast(&noPreference))
	}
	for len(wantAttack) > 0 && len(noPreference) > 0 {
		pair(popLast(&noPreference), popLast(&wantAttack))
	}
	for len(wantDefend) > 1 {
		pair(popLast(&wantDefend), popLast(&wantDefend))
	}
	for len(wantAttack) > 1 {
		pair(popLast(&wantAttack), popLast(&wantAttack))
	}
	for len(noPreference) > 1 {
		pair(popLast(&noPreference), popLast(&noPreference))
	}

	return out
}

// assemblePaired places finished pairs into slots. The pair holding the
// single highest-time player sits out as the substitute pair; among the
// field pairs the one holding the next-highest-time player rotates off
// first.
func assemblePaired(goalieID string, mode formation.Mode, pairs []formation.Pair, seconds map[string]int) Recommendation {
	fieldCount := len(mode.FieldPairSlots)

	subPair := formation.Pair{}
	hasSub := len(pairs) > fieldCount
	if hasSub {
		subIdx := pairIndexWithMaxTime(pairs, seconds)
		subPair = pairs[subIdx]
		pairs = append(append([]formation.Pair(nil), pairs[:subIdx]...), pairs[subIdx+1:]...)
	}

	// Pad or truncate to exactly the field pair slots; players in truncated
	// pairs still appear in the rotation queue behind the substitute pair.
	fieldPairs := append([]formation.Pair(nil), pairs...)
	var overflow []formation.Pair
	if len(fieldPairs) > fieldCount {
		overflow = fieldPairs[fieldCount:]
		fieldPairs = fieldPairs[:fieldCount]
	}
	for len(fieldPairs) < fieldCount {
		fieldPairs = append(fieldPairs, formation.Pair{})
	}

	f := formation.Formation{
		GoalieID: goalieID,
		Pairs:    make(map[formation.PairSlot]formation.Pair, fieldCount+1),
	}
	for i, slot := range mode.FieldPairSlots {
		f.Pairs[slot] = fieldPairs[i]
	}
	if hasSub {
		f.Pairs[formation.PairSubstitute] = subPair
	}

	if !hasSub {
		return Recommendation{Formation: f}
	}

	firstOffIdx := pairIndexWithMaxTime(fieldPairs, seconds)
	queue := make([]string, 0, 2*(len(fieldPairs)+len(overflow)+1))
	queue = appendPairMembers(queue, fieldPairs[firstOffIdx])
	for i, pair := range fieldPairs {
		if i == firstOffIdx {
			continue
		}
		queue = appendPairMembers(queue, pair)
	}
	queue = appendPairMembers(queue, subPair)
	for _, pair := range overflow {
		queue = appendPairMembers(queue, pair)
	}

	nextOff := fieldPairs[firstOffIdx].DefenderID
	if nextOff == "" {
		nextOff = fieldPairs[firstOffIdx].AttackerID
	}

	return Recommendation{Formation: f, RotationQueue: queue, NextOff: nextOff}
}

func pairIndexWithMaxTime(pairs []formation.Pair, seconds map[string]int) int {
	best, bestSeconds := 0, -1
	for i, pair := range pairs {
		for _, id := range []string{pair.DefenderID, pair.AttackerID} {
			if id == "" {
				continue
			}
			if seconds[id] > bestSeconds {
				best, bestSeconds = i, seconds[id]
			}
		}
	}
	return best
}

func appendPairMembers(queue []string, pair formation.Pair) []string {
	if pair.DefenderID != "" {
		queue = append(queue, pair.DefenderID)
	}
	if pair.AttackerID != "" {
		queue = append(queue, pair.AttackerID)
	}
	return queue
}

func previousRole(previous *formation.Formation, playerID string) player.Role {
	if previous == nil {
		return ""
	}
	_, pair, ok := previous.PairFor(playerID)
	if !ok {
		return ""
	}
	if pair.DefenderID == playerID {
		return player.RoleDefender
	}
	return player.RoleAttacker
}

func outfieldSecondsIndex(squad []player.Player) map[string]int {
	out := make(map[string]int, len(squad))
	for _, p := range squad {
		out[p.ID] = p.Stats.OutfieldSeconds
	}
	return out
}

func popLast(ids *[]string) string {
	s := *ids
	last := s[len(s)-1]
	*ids = s[:len(s)-1]
	return last
}

// pairPool is an index-tracked removable set over the active outfield
// players, preserving roster order.
type pairPool struct {
	order []string
	byID  map[string]player.Player
	taken map[string]bool
}

func newPairPool(players []player.Player) *pairPool {
	pool := &pairPool{
		order: make([]string, 0, len(players)),
		byID:  make(map[string]player.Player, len(players)),
		taken: make(map[string]bool, len(players)),
	}
	for _, p := range players {
		pool.order = append(pool.order, p.ID)
		pool.byID[p.ID] = p
	}
	return pool
}

func (p *pairPool) has(id string) bool {
	if id == "" || p.taken[id] {
		return false
	}
	_, ok := p.byID[id]
	return ok
}

func (p *pairPool) take(id string) {
	if _, ok := p.byID[id]; ok {
		p.taken[id] = true
	}
}

func (p *pairPool) remaining() []player.Player {
	out := make([]player.Player, 0, len(p.order))
	for _, id := range p.order {
		if !p.taken[id] {
			out = append(out, p.byID[id])
		}
	}
	return out
}
