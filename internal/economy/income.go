// Package economy implements the Income phase (§4.4) and the
// Maintenance upkeep/shortfall cascade (§4.5 step 4), grounded on the
// teacher's resources_module.go production-formula style (named
// constants, small pure functions per formula term).
package economy

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// RawIndex looks up the 7x5 table (§4.4).
func RawIndex(cfg config.Economy, class model.PlanetClass, resources model.ResourceRating) float64 {
	if byClass, ok := cfg.RawIndex[class]; ok {
		if v, ok := byClass[resources]; ok {
			return v
		}
	}
	return 1.0
}

// ELMod implements EL_MOD = 1 + 0.10*(EL-1) (§4.4).
func ELMod(el int) float64 {
	return 1.0 + 0.10*float64(el-1)
}

// ProdGrowth implements PROD_GROWTH = (50 - tax_rate) / 500 (§4.4).
func ProdGrowth(taxRate int) float64 {
	return float64(50-taxRate) / 500.0
}

// GrossColonialOutput implements §4.4's GCO formula:
// GCO = PU*RAW_INDEX + IU*EL_MOD*(1+PROD_GROWTH), then infrastructure
// damage and blockade reductions.
func GrossColonialOutput(cfg config.Config, c *model.Colony, taxRate, elTech int) float64 {
	raw := RawIndex(cfg.Economy, c.Class, c.Resources)
	base := float64(c.PU)*raw + float64(c.IU)*ELMod(elTech)*(1+ProdGrowth(taxRate))

	base *= 1.0 - c.InfrastructureDamage

	if c.Blockade.Blockaded {
		base *= 1.0 - cfg.Economy.BlockadeFactor
	}

	return base
}

// NetColonialValue implements NCV = GCO * tax_rate / 100 (§4.4).
func NetColonialValue(gco float64, taxRate int) float64 {
	return gco * float64(taxRate) / 100.0
}

// PrestigePenaltyForTaxHistory derives the rolling-average tax penalty
// (§4.4: ">=51%: -1 ... -11"): -1 at the threshold, plus
// HighTaxPenaltyPerPoint for each whole point above it, capped at -11.
// With the defaults (threshold 51, 1 per point) an average of 51 gives
// -1 and any average of 61 or more gives -11.
func PrestigePenaltyForTaxHistory(cfg config.PrestigePolicy, rollingAverage float64) int {
	if rollingAverage < float64(cfg.HighTaxPenaltyThreshold) {
		return 0
	}
	over := rollingAverage - float64(cfg.HighTaxPenaltyThreshold)
	penalty := 1 + int(over)*cfg.HighTaxPenaltyPerPoint
	if penalty > 11 {
		penalty = 11
	}
	return -penalty
}

// PrestigeBonusForCurrentRate derives the per-colony bonus from the
// current tax rate (§4.4: "<=10%: +3 per colony ... 41+%: 0").
func PrestigeBonusForCurrentRate(cfg config.PrestigePolicy, taxRate int) int {
	if taxRate <= cfg.LowTaxBonusThreshold {
		return cfg.LowTaxBonusMax
	}
	if taxRate >= cfg.LowTaxBonusCeiling {
		return 0
	}
	// Linear interpolation between the threshold (max bonus) and the
	// ceiling (zero bonus).
	span := float64(cfg.LowTaxBonusCeiling - cfg.LowTaxBonusThreshold)
	frac := float64(cfg.LowTaxBonusCeiling-taxRate) / span
	return int(float64(cfg.LowTaxBonusMax) * frac)
}

// PopulationGrowth applies the logistic-style increment scaled by the
// tax-derived multiplier (§4.4). A simple bounded-growth model is used:
// growth fraction = base rate * ProdGrowth-derived multiplier * (1 -
// souls/carryingCapacity), so growth slows as population units approach
// what PU already represents (self-limiting, never runs away even if
// the engine runs many turns back to back in a test).
func PopulationGrowth(souls int64, pu int, taxRate int) int64 {
	capacity := int64(pu) * 1_000_000
	if capacity <= 0 || souls >= capacity {
		return 0
	}
	multiplier := 1.0 + ProdGrowth(taxRate)
	if multiplier < 0 {
		multiplier = 0
	}
	const baseGrowthRate = 0.01
	room := float64(capacity-souls) / float64(capacity)
	growth := float64(souls) * baseGrowthRate * multiplier * room
	return int64(growth)
}

// RunIncomePhase executes §4.4 in full for every colony/house, crediting
// treasuries, recording tax history, and emitting PrestigeAdjusted
// events. It is called once per turn from internal/engine.
func RunIncomePhase(cfg config.Config, state *model.GameState, log *events.Log) {
	houseGCO := map[ident.HouseId]float64{}
	houseColonyCount := map[ident.HouseId]int{}

	colonyIDs := sortedColonyIDs(state)
	for _, cid := range colonyIDs {
		c := state.Colonies[cid]
		house, ok := state.Houses[c.Owner]
		if !ok {
			continue
		}
		taxRate := c.EffectiveTaxRate(house.TaxRate)
		el := house.TechLevels[model.TechEL]

		gco := GrossColonialOutput(cfg, c, taxRate, el)
		ncv := NetColonialValue(gco, taxRate)

		house.Treasury += int(ncv)
		houseGCO[c.Owner] += gco
		houseColonyCount[c.Owner]++

		growth := PopulationGrowth(c.PopulationSouls, c.PU, taxRate)
		c.PopulationSouls += growth
	}

	houseIDs := sortedHouseIDs(state)
	for _, hid := range houseIDs {
		house := state.Houses[hid]
		house.TaxHistory.Push(house.TaxRate)
		house.Telemetry.LastTurnTaxRate = house.TaxRate

		penalty := PrestigePenaltyForTaxHistory(cfg.Prestige, house.TaxHistory.Average())
		if penalty != 0 {
			house.Prestige += penalty
			log.Append(events.Event{Kind: events.PrestigeAdjusted, Turn: state.Turn, Phase: "income", House: hid,
				Message: "rolling tax-rate penalty", Data: map[string]any{"delta": penalty}})
		}

		bonus := PrestigeBonusForCurrentRate(cfg.Prestige, house.TaxRate) * houseColonyCount[hid]
		if bonus != 0 {
			house.Prestige += bonus
			log.Append(events.Event{Kind: events.PrestigeAdjusted, Turn: state.Turn, Phase: "income", House: hid,
				Message: "low tax-rate bonus", Data: map[string]any{"delta": bonus}})
		}
	}
}

func sortedColonyIDs(state *model.GameState) []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(state.Colonies))
	for id := range state.Colonies {
		ids = append(ids, id)
	}
	sortByString(ids, func(id ident.ColonyId) string { return id.String() })
	return ids
}

func sortedHouseIDs(state *model.GameState) []ident.HouseId {
	ids := make([]ident.HouseId, 0, len(state.Houses))
	for id := range state.Houses {
		ids = append(ids, id)
	}
	sortByString(ids, func(id ident.HouseId) string { return id.String() })
	return ids
}

func sortByString[T any](ids []T, key func(T) string) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && key(ids[j]) < key(ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
