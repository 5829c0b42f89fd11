package model

import "houseturn/internal/ident"

// Fleet is owned by one house and located in one system (§3). Cloaking
// and scout detection capability are not modeled as fleet flags, and
// the reference resolver in internal/combat does not derive them from
// ship classes; it ranks fleets by summed ship stats only.
type Fleet struct {
	ID     ident.FleetId
	Owner  ident.HouseId
	System ident.SystemId
	Status FleetStatus

	Squadrons []*Squadron
	Spacelift []Ship // ETACs and Troop Transports; never squadron members

	ROE int // rules of engagement, 0-10, attached by the most recent order
}

// IsEmpty reports the empty-fleet law (§3, §8 property 7): zero
// squadrons AND zero spacelift ships.
func (f *Fleet) IsEmpty() bool {
	return len(f.Squadrons) == 0 && len(f.Spacelift) == 0
}

// ShipCount returns the total hull count across all squadrons and
// spacelift ships, used by maintenance and capacity computations.
func (f *Fleet) ShipCount() int {
	n := len(f.Spacelift)
	for _, sq := range f.Squadrons {
		n += len(sq.AllShips())
	}
	return n
}

// HasCombatShips reports whether the fleet contains at least one
// Combat-type squadron, required by Guard/Blockade/Invade orders (§4.6).
func (f *Fleet) HasCombatShips() bool {
	for _, sq := range f.Squadrons {
		if sq.Type == CombatSquadron {
			return true
		}
	}
	return false
}

// ScoutCount returns how many Scout-class hulls are present across all
// squadrons, used to validate SpyPlanet/HackStarbase/SpySystem orders
// ("fleet must contain exactly 1 Scout" — §4.6).
func (f *Fleet) ScoutCount() int {
	n := 0
	for _, sq := range f.Squadrons {
		if sq.Flagship.Class.IsScout() {
			n++
		}
		for _, e := range sq.Escorts {
			if e.Class.IsScout() {
				n++
			}
		}
	}
	return n
}

// TroopTransports returns every Troop Transport spacelift ship, loaded
// or not; Invade/Blitz validation checks their Marines cargo.
func (f *Fleet) TroopTransports() []Ship {
	var out []Ship
	for _, s := range f.Spacelift {
		if s.Class == TroopTransport {
			out = append(out, s)
		}
	}
	return out
}

// ETACs returns the ETAC spacelift ships, required by Colonize orders.
func (f *Fleet) ETACs() []Ship {
	var out []Ship
	for _, s := range f.Spacelift {
		if s.Class == ETAC {
			out = append(out, s)
		}
	}
	return out
}

// RemoveSquadron deletes the squadron with the given id, if present.
func (f *Fleet) RemoveSquadron(id ident.SquadronId) {
	for i, sq := range f.Squadrons {
		if sq.ID == id {
			f.Squadrons = append(f.Squadrons[:i], f.Squadrons[i+1:]...)
			return
		}
	}
}

// Merge appends another fleet's squadrons and spacelift ships into f,
// used by JoinFleet and Rendezvous (§4.6 orders 14/15). The caller is
// responsible for deleting `other` and any orders keyed by its id
// afterward (§9: destructive ops must delete the emptied parent and its
// pending orders atomically).
func (f *Fleet) Merge(other *Fleet) {
	f.Squadrons = append(f.Squadrons, other.Squadrons...)
	f.Spacelift = append(f.Spacelift, other.Spacelift...)
	other.Squadrons = nil
	other.Spacelift = nil
}

// MaintenanceRate returns the fraction of full ship-maintenance cost
// this fleet's status charges (§4.6: Active 100%, Reserve 50%,
// Mothballed 0% but defensive-screen only).
func (f *Fleet) MaintenanceRate() float64 {
	switch f.Status {
	case FleetReserve:
		return 0.5
	case FleetMothballed:
		return 0.0
	default:
		return 1.0
	}
}
