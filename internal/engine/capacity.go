package engine

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// enforceCapacity implements §4.5 step 5: a house whose squadron count
// exceeds its cap, or a colony whose resident fighter count exceeds
// its cap, starts (or continues) a grace-period timer; once the timer
// expires with the house/colony still over cap, the oldest excess
// entity is disbanded without salvage credit.
func enforceCapacity(cfg config.Config, state *model.GameState, log *events.Log) {
	for _, hid := range sortedMaintenanceHouseIDs(state) {
		house := state.Houses[hid]
		enforceSquadronCap(cfg, state, log, house)
	}
	for _, cid := range sortedMaintenanceColonyIDs(state) {
		colony := state.Colonies[cid]
		house, ok := state.Houses[colony.Owner]
		if !ok {
			continue
		}
		enforceFighterCap(cfg, state, log, house, colony)
	}
}

// squadronCap implements §4.5's "max(8, floor(IU/100)*2)" formula over
// a house's total industrial capacity.
func squadronCap(state *model.GameState, house ident.HouseId) int {
	iu := 0
	for _, c := range state.Colonies {
		if c.Owner == house {
			iu += c.IU
		}
	}
	cap := (iu / 100) * 2
	if cap < 8 {
		cap = 8
	}
	return cap
}

func enforceSquadronCap(cfg config.Config, state *model.GameState, log *events.Log, house *model.House) {
	count := 0
	for _, f := range state.Fleets {
		if f.Owner == house.ID {
			count += len(f.Squadrons)
		}
	}

	cap := squadronCap(state, house.ID)
	if count <= cap {
		house.SquadronCapExpiryTurn = 0
		return
	}

	if house.SquadronCapExpiryTurn == 0 {
		house.SquadronCapExpiryTurn = state.Turn + cfg.SquadronCapGraceTurns
		return
	}
	if state.Turn < house.SquadronCapExpiryTurn {
		return
	}

	disbandOldestSquadron(state, log, house)
	count--
	if count <= cap {
		house.SquadronCapExpiryTurn = 0
	}
}

// disbandOldestSquadron removes the lowest-id squadron owned by house
// with no salvage credit, the grace-period consequence named in §4.5
// step 5.
func disbandOldestSquadron(state *model.GameState, log *events.Log, house *model.House) {
	var targetFleet *model.Fleet
	var targetSquadron ident.SquadronId

	for _, fid := range sortedMaintenanceFleetIDs(state) {
		f := state.Fleets[fid]
		if f.Owner != house.ID {
			continue
		}
		for _, sq := range f.Squadrons {
			if targetFleet == nil || sq.ID.String() < targetSquadron.String() {
				targetFleet = f
				targetSquadron = sq.ID
			}
		}
	}
	if targetFleet == nil {
		return
	}

	targetFleet.RemoveSquadron(targetSquadron)
	log.Append(events.Event{Kind: events.ShipProductionLost, Turn: state.Turn, Phase: "maintenance", House: house.ID,
		Fleet: targetFleet.ID, Message: "squadron disbanded over cap, grace period expired"})
	state.PruneEmptyFleets()
}

// fighterCap implements §4.5 step 5's "per-colony fighter capacity
// against infrastructure x k and population" as
// floor((1 - infra_damage) * PU * k).
func fighterCap(cfg config.Config, colony *model.Colony) int {
	return int((1.0 - colony.InfrastructureDamage) * float64(colony.PU) * cfg.FighterCapPerPUUnit)
}

func enforceFighterCap(cfg config.Config, state *model.GameState, log *events.Log, house *model.House, colony *model.Colony) {
	cap := fighterCap(cfg, colony)

	if len(colony.FighterSquadrons) <= cap {
		if house.FighterCapExpiryPerColony != nil {
			delete(house.FighterCapExpiryPerColony, colony.ID)
		}
		return
	}

	if house.FighterCapExpiryPerColony == nil {
		house.FighterCapExpiryPerColony = map[ident.ColonyId]int{}
	}
	expiry, tracked := house.FighterCapExpiryPerColony[colony.ID]
	if !tracked {
		house.FighterCapExpiryPerColony[colony.ID] = state.Turn + cfg.FighterCapGraceTurns
		return
	}
	if state.Turn < expiry {
		return
	}

	colony.FighterSquadrons = colony.FighterSquadrons[1:]
	if len(colony.FighterSquadrons) <= cap {
		delete(house.FighterCapExpiryPerColony, colony.ID)
	}
	log.Append(events.Event{Kind: events.ShipProductionLost, Turn: state.Turn, Phase: "maintenance", House: house.ID,
		Colony: colony.ID, Message: "fighter disbanded over cap, grace period expired"})
}
