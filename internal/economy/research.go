package economy

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/model"
)

// GrossHouseOutput sums GCO across every colony owned by house (§1
// glossary: "GHO = Σ GCO"), using current colony state and the house's
// current tax rate — Command step 6 runs before Income recomputes
// treasuries for the turn, so this is a fresh pass over colony state
// rather than a reuse of Income's own totals.
func GrossHouseOutput(cfg config.Config, state *model.GameState, house *model.House) float64 {
	total := 0.0
	el := house.TechLevels[model.TechEL]
	for _, cid := range sortedColonyIDs(state) {
		c := state.Colonies[cid]
		if c.Owner != house.ID {
			continue
		}
		taxRate := c.EffectiveTaxRate(house.TaxRate)
		total += GrossColonialOutput(cfg, c, taxRate, el)
	}
	return total
}

// rpConversionRate converts one PP into RP, scaled by GHO and the
// relevant tech level: a house with a larger economy and more advanced
// tech turns research spending into progress faster (§4.3 step 6:
// "Convert PP into RP per field using ... GHO ... and current tech
// levels"). The conversion never drops below a floor so a house with
// zero GHO (a brand new, colony-less house) can still make some
// progress if it somehow has PP to spend.
func rpConversionRate(gho float64, techLevel int) float64 {
	rate := 0.01*gho + 0.05*float64(techLevel)
	if rate < 0.1 {
		rate = 0.1
	}
	return rate
}

// RunResearchAllocation executes §4.3 step 6 for one house's submitted
// allocation: treat it as a request, scale proportionally if it exceeds
// treasury (cancel entirely if treasury <= 0), deduct the scaled total,
// then convert PP to RP per field and accumulate.
func RunResearchAllocation(cfg config.Config, state *model.GameState, log *events.Log, house *model.House, alloc model.ResearchAllocation) {
	requested := alloc.Economic + alloc.Science
	for _, v := range alloc.Fields {
		requested += v
	}
	if requested <= 0 {
		return
	}

	if house.Treasury <= 0 {
		log.Append(events.Event{Kind: events.EngineWarning, Turn: state.Turn, Phase: "command", House: house.ID,
			Message: "research cancelled: treasury non-positive"})
		return
	}

	scale := 1.0
	if requested > house.Treasury {
		scale = float64(house.Treasury) / float64(requested)
	}

	economicPP := int(float64(alloc.Economic) * scale)
	sciencePP := int(float64(alloc.Science) * scale)
	fieldPP := make(map[model.TechField]int, len(alloc.Fields))
	for field, pp := range alloc.Fields {
		fieldPP[field] = int(float64(pp) * scale)
	}

	spent := economicPP + sciencePP
	for _, pp := range fieldPP {
		spent += pp
	}
	house.Treasury -= spent
	house.Telemetry.ResearchPPSpent = spent

	gho := GrossHouseOutput(cfg, state, house)
	overallTech := house.TechLevels[model.TechCST]

	house.EconomicRP += int(float64(economicPP) * rpConversionRate(gho, overallTech))
	house.ScienceRP += int(float64(sciencePP) * rpConversionRate(gho, overallTech))
	for _, field := range sortedTechFields(fieldPP) {
		pp := fieldPP[field]
		if house.TechRP == nil {
			house.TechRP = map[model.TechField]int{}
		}
		house.TechRP[field] += int(float64(pp) * rpConversionRate(gho, house.TechLevels[field]))
	}

	if scale < 1.0 {
		log.Append(events.Event{Kind: events.EngineWarning, Turn: state.Turn, Phase: "command", House: house.ID,
			Message: "research allocation scaled down to treasury", Data: map[string]any{"scale": scale}})
	}
}

func sortedTechFields(fields map[model.TechField]int) []model.TechField {
	out := make([]model.TechField, 0, len(fields))
	for f := range fields {
		out = append(out, f)
	}
	sortByString(out, func(f model.TechField) string { return string(f) })
	return out
}
