package model

import "houseturn/internal/ident"

// GameState is the entire persistable world (§3, §6): star map, entity
// tables keyed by id, per-house data, and pending cross-phase queues.
// It is the sole input/output of Advance (internal/engine); nothing
// else is threaded through the pipeline.
//
// Entities are held in arena-style maps per the design note (§9): every
// dereference by id is a map lookup that must be treated as optional
// ("entity gone, log and skip"), never a panic on miss.
type GameState struct {
	Turn int `bson:"turn"`

	Systems map[ident.SystemId]*System `bson:"systems"`

	Houses     map[ident.HouseId]*House         `bson:"houses"`
	Colonies   map[ident.ColonyId]*Colony        `bson:"colonies"`
	Facilities map[ident.FacilityId]*Facility    `bson:"facilities"`
	Fleets     map[ident.FleetId]*Fleet          `bson:"fleets"`
	SpyScouts  map[ident.SpyScoutId]*SpyScout    `bson:"spyScouts"`

	// FleetOrders holds the current order of record per fleet (§3, §4.6).
	FleetOrders map[ident.FleetId]*Order `bson:"fleetOrders"`

	// PendingMilitaryCommissions is populated by Maintenance step 1 and
	// drained by the next turn's Command step 1 (§3, §4.8).
	PendingMilitaryCommissions []PendingCommission `bson:"pendingMilitaryCommissions"`

	// TerminalOrderFleets carries forward the fleet ids named by this
	// turn's OrderCompleted/OrderFailed/OrderAborted events, consumed by
	// next turn's Command step 0 cleanup scan (§4.3 step 0). Advance
	// stays a pure function of (state, packets, rng_seed) because this
	// is state, not an out-of-band lookup into last turn's event log.
	TerminalOrderFleets []ident.FleetId `bson:"terminalOrderFleets"`
}

// NewGameState builds an empty world at turn 0.
func NewGameState() *GameState {
	return &GameState{
		Systems:     map[ident.SystemId]*System{},
		Houses:      map[ident.HouseId]*House{},
		Colonies:    map[ident.ColonyId]*Colony{},
		Facilities:  map[ident.FacilityId]*Facility{},
		Fleets:      map[ident.FleetId]*Fleet{},
		SpyScouts:   map[ident.SpyScoutId]*SpyScout{},
		FleetOrders: map[ident.FleetId]*Order{},
	}
}

// ColonyAt looks up the colony occupying a system, if any (§3: "exactly
// one colony per system").
func (s *GameState) ColonyAt(system ident.SystemId) *Colony {
	for _, c := range s.Colonies {
		if c.System == system {
			return c
		}
	}
	return nil
}

// FleetsAt returns every fleet currently located in system.
func (s *GameState) FleetsAt(system ident.SystemId) []*Fleet {
	var out []*Fleet
	for _, f := range s.Fleets {
		if f.System == system {
			out = append(out, f)
		}
	}
	return out
}

// DeleteFleet removes a fleet and any pending order keyed by it (§3
// invariant: "Pending orders for a destroyed fleet are removed").
func (s *GameState) DeleteFleet(id ident.FleetId) {
	delete(s.Fleets, id)
	delete(s.FleetOrders, id)
}

// PruneEmptyFleets deletes every fleet with zero squadrons and zero
// spacelift ships and their pending orders, enforcing the empty-fleet
// law (§3, §8 property 7) at the end of any step that might have
// emptied a fleet.
func (s *GameState) PruneEmptyFleets() {
	for id, f := range s.Fleets {
		if f.IsEmpty() {
			s.DeleteFleet(id)
		}
	}
}
