// Package construction implements the per-facility dock-capacity
// queues, build submission, and commissioning pipeline (§4.3 step 7,
// §4.5 steps 1-2, §4.8, §4.9). It is the economic/construction
// subsystem the purpose statement calls out as one of the three
// tightly-coupled pieces of "the hardest engineering in the
// repository."
package construction

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// spaceportCostMultiplier is §4.3 step 7's "planet-side construction —
// any build at a Spaceport — costs 2x base".
const spaceportCostMultiplier = 2

// unitCost computes the PP cost of one unit of a build command,
// applying the spaceport penalty when the chosen facility is a
// Spaceport (§4.3 step 7).
func unitCost(cfg config.Config, cmd model.BuildCommand, facilityKind model.FacilityKind) (int, int, bool) {
	var base, buildTurns int

	switch cmd.Type {
	case model.ConstructShip:
		stats, ok := cfg.Ships[model.ShipClass(cmd.Item)]
		if !ok {
			return 0, 0, false
		}
		base, buildTurns = stats.Cost, stats.BuildTurns
	case model.ConstructFacility:
		fc, ok := cfg.Facilities[model.FacilityKind(cmd.Item)]
		if !ok {
			return 0, 0, false
		}
		base, buildTurns = fc.Cost, fc.BuildTurns
	case model.ConstructGroundUnit:
		gc, ok := cfg.GroundUnits[cmd.Item]
		if !ok {
			return 0, 0, false
		}
		base, buildTurns = gc.Cost, gc.BuildTurns
	case model.ConstructIndustrial:
		base, buildTurns = 200, 2
	case model.ConstructInfrastructure:
		base, buildTurns = 150, 1
	default:
		return 0, 0, false
	}

	if facilityKind == model.Spaceport {
		base *= spaceportCostMultiplier
	}
	return base, buildTurns, true
}

// ValidateFacilityPrerequisites checks §4.3 step 7's and §9's resolved
// facility-prerequisite rules: Shipyard requires a Spaceport at the
// same colony (authoritative per §9's resolved contradiction);
// Starbase requires a Shipyard at the same colony. Spaceport and
// Drydock have no facility prerequisite beyond the colony itself.
func ValidateFacilityPrerequisites(state *model.GameState, colony *model.Colony, newKind model.FacilityKind) bool {
	switch newKind {
	case model.Shipyard:
		return colony.HasFacilityKind(state.Facilities, model.Spaceport)
	case model.Starbase:
		return colony.HasFacilityKind(state.Facilities, model.Shipyard)
	default:
		return true
	}
}

// SubmitBuild executes §4.3 step 7 for one command: validates the
// target colony and facility, computes cost per unit (applying the
// spaceport penalty), deducts PP upfront unit by unit, and enqueues
// each accepted unit onto the facility — directly into an active slot
// if one is free, onto the unbounded FIFO queue otherwise (§4.9,
// Scenario A). The first unit the house cannot afford is dropped,
// along with every remaining requested unit (§7: InsufficientResource
// drops the offending command, not the whole packet) — dock capacity
// itself never causes a drop, only a wait in queue.
func SubmitBuild(cfg config.Config, state *model.GameState, log *events.Log, house *model.House, cmd model.BuildCommand, idGen *ident.Generator) {
	colony, ok := state.Colonies[cmd.Colony]
	if !ok || colony.Owner != house.ID {
		log.Warning(state.Turn, "command", "build dropped: colony not owned")
		return
	}

	facility, ok := state.Facilities[cmd.Facility]
	if !ok {
		log.Warning(state.Turn, "command", "build dropped: facility not found")
		return
	}

	if cmd.Type == model.ConstructFacility {
		if !ValidateFacilityPrerequisites(state, colony, model.FacilityKind(cmd.Item)) {
			log.Warning(state.Turn, "command", "build dropped: facility prerequisite unmet")
			return
		}
	}

	if cmd.Type == model.ConstructShip {
		stats, ok := cfg.Ships[model.ShipClass(cmd.Item)]
		if !ok || house.TechLevels[model.TechCST] < stats.MinCST {
			log.Warning(state.Turn, "command", "build dropped: CST level too low for ship class")
			return
		}
	}

	cost, buildTurns, ok := unitCost(cfg, cmd, facility.Kind)
	if !ok {
		log.Warning(state.Turn, "command", "build dropped: unknown build item")
		return
	}

	cst := house.TechLevels[model.TechCST]
	effDocks := model.EffectiveDocks(facility.BaseDocks, cst)

	quantity := cmd.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	for i := 0; i < quantity; i++ {
		if house.Treasury < cost {
			log.Append(events.Event{Kind: events.EngineWarning, Turn: state.Turn, Phase: "command", House: house.ID,
				Colony: colony.ID, Message: "build dropped: insufficient treasury"})
			return
		}

		house.Treasury -= cost

		project := &model.ConstructionProject{
			ID:             idGen.NextFacilityId(),
			Type:           cmd.Type,
			Item:           cmd.Item,
			Owner:          colony.ID,
			Cost:           cost,
			CostPaid:       cost,
			TurnsRemaining: buildTurns,
		}

		if facility.HasFreeActiveSlot(effDocks) {
			facility.ConstructionActive = append(facility.ConstructionActive, project)
		} else {
			facility.ConstructionQueue = append(facility.ConstructionQueue, project)
		}
	}
}

// CancelBuild removes a still-queued or still-active project and
// refunds 50% of the amount actually paid so far (§9's resolved open
// question: the refund is scaled from CostPaid, not the base cost, so
// a cancelled spaceport-penalized build refunds 50% of the doubled
// amount it actually charged).
func CancelBuild(house *model.House, facility *model.Facility, projectID ident.FacilityId) bool {
	if removeActive(facility, projectID, house) {
		return true
	}
	for i, p := range facility.ConstructionQueue {
		if p.ID == projectID {
			house.Treasury += p.CostPaid / 2
			facility.ConstructionQueue = append(facility.ConstructionQueue[:i], facility.ConstructionQueue[i+1:]...)
			return true
		}
	}
	return false
}

func removeActive(facility *model.Facility, projectID ident.FacilityId, house *model.House) bool {
	for i, p := range facility.ConstructionActive {
		if p.ID == projectID {
			house.Treasury += p.CostPaid / 2
			facility.ConstructionActive = append(facility.ConstructionActive[:i], facility.ConstructionActive[i+1:]...)
			return true
		}
	}
	return false
}
