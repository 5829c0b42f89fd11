package model

import "houseturn/internal/ident"

// TaxHistory is the 6-turn rolling window of tax rates used by Income
// (§4.4) to derive the rolling-average prestige penalty.
type TaxHistory struct {
	Rates [6]int // percent, most recent at index 0
	Count int    // number of turns recorded so far, caps at 6
}

// Push records this turn's rate, sliding the window.
func (h *TaxHistory) Push(rate int) {
	copy(h.Rates[1:], h.Rates[:5])
	h.Rates[0] = rate
	if h.Count < 6 {
		h.Count++
	}
}

// Average returns the mean of the recorded rates (0 if none recorded).
func (h *TaxHistory) Average() float64 {
	if h.Count == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < h.Count; i++ {
		sum += h.Rates[i]
	}
	return float64(sum) / float64(h.Count)
}

// Telemetry accumulates the per-turn totals a house produced, consumed
// externally by the (out of scope) report generator and AI collaborators
// (§6) but computed here since it falls naturally out of phase execution.
type Telemetry struct {
	CombatDamageDealt   int
	CombatDamageTaken   int
	EspionageAttempts   int
	EspionageSuccesses  int
	ResearchPPSpent     int
	LastTurnTaxRate     int
}

// House represents one player/faction (§3).
type House struct {
	ID     ident.HouseId
	Name   string

	Treasury int
	Prestige int

	TechLevels map[TechField]int

	TaxRate    int
	TaxHistory TaxHistory

	EBP int // Espionage Budget Points
	CIP int // Counter-Intelligence Points

	Relations map[ident.HouseId]Relation
	Violations []string

	Status HouseStatus

	// TurnsWithoutOrders counts consecutive turns with no submitted
	// packet; 3 triggers Autopilot (§3).
	TurnsWithoutOrders int
	// ConsecutiveNegativePrestigeTurns counts consecutive turns with
	// prestige < 0; 3 (while already Autopilot, or from Active) triggers
	// DefensiveCollapse (§3).
	ConsecutiveNegativePrestigeTurns int
	// ConsecutiveShortfallTurns is the upkeep shortfall streak (§4.5
	// step 4), reset to 0 the instant treasury covers upkeep again.
	ConsecutiveShortfallTurns int

	// SquadronCapExpiryTurn and FighterCapExpiryPerColony implement the
	// grace-period timer map design note (§9): zero means "not currently
	// over cap"; otherwise the turn number at which the oldest excess
	// entity is disbanded if the house is still over cap then.
	SquadronCapExpiryTurn    int
	FighterCapExpiryPerColony map[ident.ColonyId]int

	Telemetry Telemetry
}

// NewHouse builds a fresh Active house with tech levels initialized to
// 1 per §3.
func NewHouse(id ident.HouseId, name string) *House {
	return &House{
		ID:         id,
		Name:       name,
		Status:     Active,
		TechLevels: map[TechField]int{
			TechCST: 1, TechEL: 1, TechSL: 1, TechWEP: 1, TechELI: 1,
		},
		Relations:                 map[ident.HouseId]Relation{},
		FighterCapExpiryPerColony: map[ident.ColonyId]int{},
	}
}

// RelationWith returns the diplomatic state toward other, defaulting to
// Neutral when unrecorded.
func (h *House) RelationWith(other ident.HouseId) Relation {
	if r, ok := h.Relations[other]; ok {
		return r
	}
	return Neutral
}

// IsHostileTo reports whether combat may occur between h and other
// (§4.2 step 2: "pairwise diplomatic state is Hostile or Enemy").
func (h *House) IsHostileTo(other ident.HouseId) bool {
	r := h.RelationWith(other)
	return r == HostileR || r == Enemy
}
