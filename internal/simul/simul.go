// Package simul implements the simultaneous-resolution protocol (§4.7)
// for order categories where execution order would otherwise confer
// first-mover advantage. Its users are Bombard/Invade/Blitz at the same
// colony, Colonize at the same empty system, and EBP-espionage at the
// same target; Blockade resolution does not use it.
package simul

import (
	"sort"

	"houseturn/internal/ident"
)

// Candidate is one order competing in a conflict group. TargetKey
// groups candidates that contend for the same resource (a colony, a
// system, ...); AttackerHouse and Fleet break ties deterministically
// per §4.7 step 2: "(target_id, attacker_house_id, fleet_id)".
type Candidate struct {
	TargetKey     string
	AttackerHouse ident.HouseId
	Fleet         ident.FleetId

	// Payload is resolver-specific data (the original Order, combat
	// roster, etc.) carried through untouched.
	Payload any
}

// Group is every candidate sharing one TargetKey, sorted deterministically.
type Group struct {
	TargetKey  string
	Candidates []Candidate
}

// Sort groups candidates by TargetKey and orders each group's members
// by (AttackerHouse, Fleet) per §4.7 step 2. Groups themselves are
// returned in TargetKey order so that downstream iteration over groups
// is itself deterministic.
func Sort(candidates []Candidate) []Group {
	byTarget := map[string][]Candidate{}
	for _, c := range candidates {
		byTarget[c.TargetKey] = append(byTarget[c.TargetKey], c)
	}

	keys := make([]string, 0, len(byTarget))
	for k := range byTarget {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		members := byTarget[k]
		sort.Slice(members, func(i, j int) bool {
			if members[i].AttackerHouse != members[j].AttackerHouse {
				return members[i].AttackerHouse.String() < members[j].AttackerHouse.String()
			}
			return members[i].Fleet.String() < members[j].Fleet.String()
		})
		groups = append(groups, Group{TargetKey: k, Candidates: members})
	}
	return groups
}

// Outcome is the per-candidate result of resolving one group: winner
// for winner-takes-all categories (Colonize), or the accumulated
// per-candidate effect for stackable categories (Bombard).
type Outcome struct {
	Candidate Candidate
	Won       bool
	Effect    any
}

// ResolveWinnerTakesAll picks exactly one winner per group, the first
// candidate after the deterministic sort, and marks every other
// candidate in the group as a loser. It makes no RNG draw: the sort key
// itself is the tiebreak.
func ResolveWinnerTakesAll(groups []Group) []Outcome {
	var outcomes []Outcome
	for _, g := range groups {
		for i, c := range g.Candidates {
			outcomes = append(outcomes, Outcome{Candidate: c, Won: i == 0})
		}
	}
	return outcomes
}

// ResolveStackable applies effect to every candidate in every group,
// used by categories where multiple attackers' effects accumulate
// (Bombard: "damages accumulate") rather than one winner emerging.
func ResolveStackable(groups []Group, effect func(Candidate) any) []Outcome {
	var outcomes []Outcome
	for _, g := range groups {
		for _, c := range g.Candidates {
			outcomes = append(outcomes, Outcome{Candidate: c, Won: true, Effect: effect(c)})
		}
	}
	return outcomes
}
