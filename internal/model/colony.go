package model

import "houseturn/internal/ident"

// GroundUnits tallies the ground forces stationed at a colony (§3).
// Batteries defend against Invade round 1; Armies and Marines both
// count toward ground-force strength for Blitz's 2:1 superiority check,
// Marines specifically being the landed-invasion payload; Shields are
// built and charged upkeep, but neither bombardment nor the combat
// resolver reads them, so they do not reduce bombardment damage.
type GroundUnits struct {
	Batteries int
	Armies    int
	Marines   int
	Shields   int
}

// TerraformProject tracks an in-progress terraform command.
type TerraformProject struct {
	TargetClass    PlanetClass
	TurnsRemaining int
}

// BlockadeState is the blockade bookkeeping carried on a colony (§3).
type BlockadeState struct {
	Blockaded     bool
	BlockadedBy   map[ident.HouseId]bool
	ConsecutiveTurns int
}

// Colony is owned by exactly one house and occupies exactly one system
// (§3).
type Colony struct {
	ID     ident.ColonyId
	Owner  ident.HouseId
	System ident.SystemId

	PopulationSouls int64 // exact souls; display unit is millions
	PU              int   // Population Units (production measure)
	IU              int   // Industrial Units (manufacturing capacity)

	InfrastructureDamage float64 // 0.0-1.0

	Class     PlanetClass
	Resources ResourceRating

	Facilities  []ident.FacilityId
	GroundUnits GroundUnits

	FighterSquadrons []Ship // colony-resident fighters, not in any fleet

	TaxRateOverride *int // optional per-colony override of the house rate

	AutoRepair bool
	AutoLoad   bool // auto-load-fighters onto co-located carriers

	Blockade BlockadeState

	Terraform *TerraformProject

	// UnassignedSquadrons/UnassignedShips hold forces awaiting fleet
	// assignment; assign_squadron_to_fleet draws from
	// UnassignedSquadrons. Military commissioning (§4.3 step 1) puts
	// ships straight into fleets and adds to neither list.
	UnassignedSquadrons []*Squadron
	UnassignedShips     []Ship
}

// NewColony builds a freshly founded colony (§4.2 step 5 Colonize, or
// scenario setup), with zero population growth history and no
// facilities yet.
func NewColony(id ident.ColonyId, owner ident.HouseId, system ident.SystemId, class PlanetClass, resources ResourceRating) *Colony {
	return &Colony{
		ID:        id,
		Owner:     owner,
		System:    system,
		Class:     class,
		Resources: resources,
		Blockade:  BlockadeState{BlockadedBy: map[ident.HouseId]bool{}},
	}
}

// EffectiveTaxRate returns the per-colony override if set, else the
// house's current rate.
func (c *Colony) EffectiveTaxRate(houseRate int) int {
	if c.TaxRateOverride != nil {
		return *c.TaxRateOverride
	}
	return houseRate
}

// HasFacilityKind reports whether this colony owns a facility of the
// given kind. Facility bodies live in the GameState's Facilities table
// (passed in as facilities), keyed by FacilityId; Colony only holds ids.
func (c *Colony) HasFacilityKind(facilities map[ident.FacilityId]*Facility, kind FacilityKind) bool {
	for _, fid := range c.Facilities {
		if f, ok := facilities[fid]; ok && f.Kind == kind {
			return true
		}
	}
	return false
}
