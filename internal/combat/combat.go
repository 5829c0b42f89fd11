// Package combat defines the boundary to the combat resolver named as
// an external collaborator in §6: "given a system and the participating
// fleets/defences + RNG, returns CombatReport and mutates hitpoints/
// crippled flags inside provided entities." Combat damage math itself
// is explicitly out of scope (§1 Non-goals); this package owns only the
// interface contract plus a small deterministic reference
// implementation so the engine (and its tests) have something to call
// without reaching outside the module.
package combat

import (
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/rng"
)

// Combatant is one house's committed forces in a system-level battle.
type Combatant struct {
	House     ident.HouseId
	Fleets    []*model.Fleet
	GroundDefense *model.GroundUnits // non-nil only for the defending colony, if any
}

// Report is the CombatReport named in §6, content otherwise defined by
// the out-of-scope combat-resolver collaborator; this engine only needs
// enough of it to drive subsequent phases (did anyone lose, is the
// system now clear of hostiles).
type Report struct {
	System     ident.SystemId
	Combatants []ident.HouseId
	Rounds     int
	// Survivors lists which houses still have at least one un-destroyed
	// fleet in the system after the battle.
	Survivors map[ident.HouseId]bool
	Destroyed []ident.FleetId
}

// Resolver is the collaborator interface the Conflict phase calls
// (§4.2 step 2, §6). The engine depends only on this interface, never
// on a concrete implementation, so a real damage-model package can be
// substituted without touching internal/engine.
type Resolver interface {
	ResolveCombat(system ident.SystemId, sides []Combatant, stream *rng.Stream) Report
}

// ReferenceResolver is a minimal, fully deterministic stand-in: it
// ranks sides by total AS+DS+HP across their committed fleets, records
// only the strongest side (the first one on a tie) in Survivors, and
// cripples the flagship of each losing side's weakest (lowest total HP)
// squadron so that downstream repair-queue logic has something to
// exercise. It names no fleet in Destroyed, so no fleet is removed. It
// exists so §8's properties are checkable end-to-end without a real
// damage model; production deployments supply their own Resolver.
type ReferenceResolver struct{}

func (ReferenceResolver) ResolveCombat(system ident.SystemId, sides []Combatant, stream *rng.Stream) Report {
	report := Report{System: system, Rounds: 1, Survivors: map[ident.HouseId]bool{}}
	if len(sides) == 0 {
		return report
	}

	strength := make([]int, len(sides))
	for i, side := range sides {
		report.Combatants = append(report.Combatants, side.House)
		for _, f := range side.Fleets {
			for _, sq := range f.Squadrons {
				for _, s := range sq.AllShips() {
					strength[i] += s.Stats.AS + s.Stats.DS + s.Stats.HP
				}
			}
		}
	}

	winner := 0
	for i := 1; i < len(strength); i++ {
		if strength[i] > strength[winner] {
			winner = i
		}
	}

	for i, side := range sides {
		if i == winner {
			report.Survivors[side.House] = true
			continue
		}
		// Each losing side takes one cripple; the squadron hit is chosen
		// by HP, not by the draw crippleOneWeakest consumes.
		crippleOneWeakest(side, stream)
	}

	return report
}

func crippleOneWeakest(side Combatant, stream *rng.Stream) {
	var weakest *model.Squadron
	weakestScore := 0
	for _, f := range side.Fleets {
		for _, sq := range f.Squadrons {
			score := 0
			for _, s := range sq.AllShips() {
				score += s.Stats.HP
			}
			if weakest == nil || score < weakestScore {
				weakest = sq
				weakestScore = score
			}
		}
	}
	if weakest != nil {
		_ = stream.D20() // consume a draw from the shared stream, per §4.7 step 3 (draw before applying)
		weakest.Flagship.Crippled = true
	}
}
