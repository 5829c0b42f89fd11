package model

import "houseturn/internal/ident"

// ConstructionProject is a unit of work occupying either one of a
// facility's active slots or its queue (§3). Completion occurs when
// TurnsRemaining reaches zero in Maintenance step 1 (§4.5).
type ConstructionProject struct {
	ID ident.FacilityId // reuses the facility id space; projects are not referenced externally by their own id

	Type ConstructionType
	// Item identifies what is being built: a ShipClass, FacilityKind,
	// ground-unit kind, or "" for Industrial/Infrastructure (which are
	// undifferentiated PU/IU or damage-repair purchases).
	Item string

	Owner   ident.ColonyId
	Cost    int
	CostPaid int
	TurnsRemaining int
}

// Complete reports whether the project has finished.
func (p *ConstructionProject) Complete() bool {
	return p.TurnsRemaining <= 0
}

// Advance decrements the remaining turns by one, floored at zero.
func (p *ConstructionProject) Advance() {
	if p.TurnsRemaining > 0 {
		p.TurnsRemaining--
	}
}

// RepairProject is a unit of repair work (§3), distinct from
// ConstructionProject because it targets an existing entity rather than
// producing a new one, and carries its own priority (construction 0,
// ship-repair 1, starbase-repair 2 — §4.9).
type RepairProject struct {
	TargetType RepairTargetType
	// FleetID/SquadronIndex/ShipIndex locate a ship target; StarbaseID
	// locates a starbase target. Exactly one addressing scheme is set,
	// matching TargetType.
	FleetID       ident.FleetId
	SquadronIndex int
	ShipIndex     int
	StarbaseID    ident.StarbaseId

	RequiredFacility FacilityKind // always Shipyard per §3
	Cost             int
	CostPaid         int
	TurnsRemaining   int
	Priority         RepairPriority
}

func (p *RepairProject) Complete() bool {
	return p.TurnsRemaining <= 0
}

func (p *RepairProject) Advance() {
	if p.TurnsRemaining > 0 {
		p.TurnsRemaining--
	}
}

// PendingCommission is an entry in state.PendingMilitaryCommissions,
// the cross-phase handoff populated by Maintenance step 1 and drained
// by Command step 1 (§4.8).
type PendingCommission struct {
	Colony   ident.ColonyId
	Facility ident.FacilityId
	Class    ShipClass
}
