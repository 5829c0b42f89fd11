package construction

import (
	"sort"

	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// AdvanceAll executes §4.5 step 1 (construction) and step 2 (repair)
// for every facility in the game, in deterministic colony/facility id
// order. Crippled facilities stall — their active projects don't
// decrement, but their queues stay intact — per §4.9.
func AdvanceAll(cfg config.Config, state *model.GameState, log *events.Log, idGen *ident.Generator) {
	for _, cid := range sortedColonyIDs(state) {
		colony := state.Colonies[cid]
		house, ok := state.Houses[colony.Owner]
		if !ok {
			continue
		}
		cst := house.TechLevels[model.TechCST]

		for _, fid := range sortedFacilityIDs(colony.Facilities) {
			facility, ok := state.Facilities[fid]
			if !ok {
				continue
			}
			effDocks := model.EffectiveDocks(facility.BaseDocks, cst)
			advanceConstruction(cfg, state, log, colony, house, fid, facility, effDocks)
			advanceRepair(state, log, facility, effDocks)
		}
	}
}

func advanceConstruction(cfg config.Config, state *model.GameState, log *events.Log, colony *model.Colony, house *model.House, facilityID ident.FacilityId, facility *model.Facility, effDocks int) {
	if facility.Crippled {
		return
	}

	still := facility.ConstructionActive[:0]
	for _, p := range facility.ConstructionActive {
		p.Advance()
		if p.Complete() {
			completeConstructionProject(cfg, state, log, colony, house, facilityID, facility, p)
		} else {
			still = append(still, p)
		}
	}
	facility.ConstructionActive = still

	// Construction and repair draw on independent effective-docks budgets
	// at the same facility (§3 invariant: "repair queue is independent
	// but constrained the same way"), not a single pool split by
	// priority across both — so each is filled against effDocks alone.
	for len(facility.ConstructionActive) < effDocks && len(facility.ConstructionQueue) > 0 {
		next := facility.ConstructionQueue[0]
		facility.ConstructionQueue = facility.ConstructionQueue[1:]
		facility.ConstructionActive = append(facility.ConstructionActive, next)
	}
}

func advanceRepair(state *model.GameState, log *events.Log, facility *model.Facility, effDocks int) {
	if facility.Crippled {
		return
	}

	still := facility.RepairActive[:0]
	for _, p := range facility.RepairActive {
		p.Advance()
		if p.Complete() {
			completeRepairProject(state, log, p)
		} else {
			still = append(still, p)
		}
	}
	facility.RepairActive = still

	sort.SliceStable(facility.RepairQueue, func(i, j int) bool {
		return facility.RepairQueue[i].Priority < facility.RepairQueue[j].Priority
	})

	for len(facility.RepairActive) < effDocks && len(facility.RepairQueue) > 0 {
		next := facility.RepairQueue[0]
		facility.RepairQueue = facility.RepairQueue[1:]
		facility.RepairActive = append(facility.RepairActive, next)
	}
}

func sortedColonyIDs(state *model.GameState) []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(state.Colonies))
	for id := range state.Colonies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func sortedFacilityIDs(ids []ident.FacilityId) []ident.FacilityId {
	out := append([]ident.FacilityId(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
