package construction

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// repairCostFraction is §3's "cost (= 25% of build cost)" for repair
// projects.
const repairCostFraction = 0.25

// SubmitShipRepair enqueues a crippled ship for repair at a Shipyard
// (Shipyard-only per §3), charging 25% of the hull's build cost and
// deducting it upfront the same way a build command does. The
// dock-capacity check at submission time is skipped deliberately: §9
// preserves the source's "submit all, let the FIFO queue absorb them"
// behavior for auto-repair overflow, and manual submissions follow the
// same rule for consistency.
func SubmitShipRepair(cfg config.Config, log *events.Log, state *model.GameState, house *model.House, facility *model.Facility, fleetID ident.FleetId, squadronIndex, shipIndex int, class model.ShipClass) {
	if facility.Kind != model.Shipyard {
		log.Warning(state.Turn, "command", "ship repair dropped: target facility is not a Shipyard")
		return
	}

	cost := int(float64(cfg.Ships[class].Cost) * repairCostFraction)
	if house.Treasury < cost {
		log.Warning(state.Turn, "command", "ship repair dropped: insufficient treasury")
		return
	}
	house.Treasury -= cost

	facility.RepairQueue = append(facility.RepairQueue, &model.RepairProject{
		TargetType:       model.RepairShip,
		FleetID:          fleetID,
		SquadronIndex:    squadronIndex,
		ShipIndex:        shipIndex,
		RequiredFacility: model.Shipyard,
		Cost:             cost,
		CostPaid:         cost,
		TurnsRemaining:   1,
		Priority:         model.PriorityShipRepair,
	})
}

// SubmitStarbaseRepair enqueues a crippled starbase for repair,
// identical to ship repair but targeting a starbase facility (§3).
func SubmitStarbaseRepair(cfg config.Config, log *events.Log, state *model.GameState, house *model.House, facility *model.Facility, starbaseID ident.StarbaseId) {
	if facility.Kind != model.Shipyard {
		log.Warning(state.Turn, "command", "starbase repair dropped: target facility is not a Shipyard")
		return
	}

	cost := int(float64(cfg.Facilities[model.Starbase].Cost) * repairCostFraction)
	if house.Treasury < cost {
		log.Warning(state.Turn, "command", "starbase repair dropped: insufficient treasury")
		return
	}
	house.Treasury -= cost

	facility.RepairQueue = append(facility.RepairQueue, &model.RepairProject{
		TargetType:       model.RepairStarbase,
		StarbaseID:       starbaseID,
		RequiredFacility: model.Shipyard,
		Cost:             cost,
		CostPaid:         cost,
		TurnsRemaining:   1,
		Priority:         model.PriorityStarbaseRepair,
	})
}

// AutoRepairColony implements §4.3 step 2's auto-repair half: extract
// every crippled ship from every friendly fleet at colony and submit it
// to the first Shipyard facility found at the colony (auto-repair
// requires a Shipyard; Spaceports cannot repair ships per §4.3 step 2).
// All jobs are submitted regardless of how many exceed the facility's
// docks — the FIFO queue absorbs the overflow (§9).
func AutoRepairColony(cfg config.Config, log *events.Log, state *model.GameState, house *model.House, colony *model.Colony) {
	shipyard := findShipyard(state, colony)
	if shipyard == nil {
		return
	}

	for _, fid := range sortedFleetIDsAt(state, colony.System, colony.Owner) {
		f := state.Fleets[fid]
		for sqIdx, sq := range f.Squadrons {
			if sq.Flagship.Crippled {
				SubmitShipRepair(cfg, log, state, house, shipyard, fid, sqIdx, 0, sq.Flagship.Class)
			}
			for eIdx, e := range sq.Escorts {
				if e.Crippled {
					SubmitShipRepair(cfg, log, state, house, shipyard, fid, sqIdx, eIdx+1, e.Class)
				}
			}
		}
	}
}

func findShipyard(state *model.GameState, colony *model.Colony) *model.Facility {
	for _, fid := range colony.Facilities {
		if f, ok := state.Facilities[fid]; ok && f.Kind == model.Shipyard {
			return f
		}
	}
	return nil
}
