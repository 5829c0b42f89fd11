package model

// Facility is a parent-specific record (Spaceport, Shipyard, Drydock,
// Starbase) owned by a colony (§3). A facility may run as many
// concurrent active construction projects as its effective docks allow
// (§4.9, Scenario A: 5 docks -> 5 simultaneous active builds); the rest
// wait in ConstructionQueue.
type Facility struct {
	Kind FacilityKind

	BaseDocks int // immutable
	Crippled  bool

	ConstructionActive []*ConstructionProject
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
// currently occupied.
func (f *Facility) ActiveProjectCount() int {
	return len(f.ConstructionActive) + len(f.RepairActive)
}

// HasFreeActiveSlot reports whether a new construction project can go
// straight into ConstructionActive (§4.9, Scenario A: effective docks
// bounds only the active set). A submission beyond this always goes to
// ConstructionQueue instead, which has no capacity limit of its own —
// the same "submit all, let the FIFO queue absorb them" rule the repair
// path (internal/construction/repair.go) already follows.
func (f *Facility) HasFreeActiveSlot(effectiveDocks int) bool {
	return len(f.ConstructionActive) < effectiveDocks
}
