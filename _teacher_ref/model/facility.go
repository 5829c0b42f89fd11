package model

// Facility is a parent-specific record (Spaceport, Shipyard, Drydock,
// Starbase) owned by a colony (§3). Construction-project identity is by
// slot (Active/Queue), not by a separate ConstructionProject.ID field,
// matching the "lives in either a facility's active slot or its queue"
// wording in §3.
type Facility struct {
	Kind FacilityKind

	BaseDocks int // immutable
	Crippled  bool

	ConstructionActive *ConstructionProject
	ConstructionQueue  []*ConstructionProject

	// RepairActive/RepairQueue apply only to Shipyard/Drydock kinds;
	// Spaceport facilities never populate them (§4.9: "Spaceports serve
	// only construction; Drydocks only repair; Shipyards both").
	RepairActive []*RepairProject
	RepairQueue  []*RepairProject
}

// EffectiveDocks applies the CST tech multiplier per §4.9:
// effective = base * (1 + 0.10*(CST-1)).
func EffectiveDocks(baseDocks, cst int) int {
	mult := 1.0 + 0.10*float64(cst-1)
	eff := float64(baseDocks) * mult
	return int(eff) // floor: a facility never gets credit for a fractional dock
}

// ActiveProjectCount returns how many construction+repair slots are
// currently occupied, used to enforce "active+queue <= effective docks"
// (§3 invariant, §4.9).
func (f *Facility) ActiveProjectCount() int {
	n := len(f.RepairActive)
	if f.ConstructionActive != nil {
		n++
	}
	return n
}

// QueuedProjectCount returns how many projects are waiting, counted
// against the same effective-docks ceiling as active projects (§3:
// "construction active + construction queue ... <= effective docks").
func (f *Facility) QueuedProjectCount() int {
	return len(f.ConstructionQueue)
}

// CanAcceptConstruction reports whether a new construction submission
// fits within effective docks (§4.3 step 7, §4.9).
func (f *Facility) CanAcceptConstruction(effectiveDocks int) bool {
	used := f.QueuedProjectCount()
	if f.ConstructionActive != nil {
		used++
	}
	return used < effectiveDocks
}
