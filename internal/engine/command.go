package engine

import (
	"sort"

	"houseturn/internal/config"
	"houseturn/internal/construction"
	"houseturn/internal/economy"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/orders"
)

// runCommand executes the eight sub-steps of §4.3 in order: cleaning up
// last turn's terminated orders, commissioning ships queued by
// Maintenance step 1, running colony automation, dispatching the
// zero-turn administrative commands, validating and storing this
// turn's fleet orders, allocating research, and submitting new builds.
func runCommand(cfg config.Config, state *model.GameState, log *events.Log, packets map[ident.HouseId]model.CommandPacket, idGen *ident.Generator) {
	cleanupTerminalOrders(state)
	construction.CommissionMilitary(cfg, state, log, idGen)
	runColonyAutomation(cfg, state, log)

	for _, houseID := range sortedPacketHouseIDs(packets) {
		packet := packets[houseID]
		house, ok := state.Houses[houseID]
		if !ok {
			continue
		}

		for _, cmd := range packet.AdminCommands {
			orders.Execute(state, log, house, cmd)
		}
		for _, order := range packet.FleetOrders {
			orders.ValidateAndStore(state, log, house, order)
		}

		economy.RunResearchAllocation(cfg, state, log, house, packet.Research)

		for _, build := range packet.Builds {
			construction.SubmitBuild(cfg, state, log, house, build, idGen)
		}
	}

	state.PruneEmptyFleets()
}

// cleanupTerminalOrders implements §4.3 step 0: drop the stored order
// for every fleet this turn's predecessor named in an
// OrderCompleted/OrderFailed/OrderAborted event, carried forward on
// state rather than re-read from a returned event log so Advance stays
// a pure function of its inputs.
func cleanupTerminalOrders(state *model.GameState) {
	for _, fid := range state.TerminalOrderFleets {
		delete(state.FleetOrders, fid)
	}
	state.TerminalOrderFleets = nil
}

// runColonyAutomation implements §4.3 step 2: colonies flagged
// AutoLoad push their resident fighters onto co-located carriers before
// anything else runs, and colonies flagged AutoRepair submit repair
// projects for every crippled ship docked there.
func runColonyAutomation(cfg config.Config, state *model.GameState, log *events.Log) {
	for _, cid := range sortedCommandColonyIDs(state) {
		colony := state.Colonies[cid]
		house, ok := state.Houses[colony.Owner]
		if !ok {
			continue
		}

		if colony.AutoLoad {
			autoLoadFighters(state, log, colony)
		}
		if colony.AutoRepair {
			construction.AutoRepairColony(cfg, log, state, house, colony)
		}
	}
}

// autoLoadFighters fills every co-located carrier's hangar from the
// colony's resident fighter pool, FIFO, before any standing order moves
// that fleet away this turn (§3: "auto-load-fighters onto co-located
// carriers").
func autoLoadFighters(state *model.GameState, log *events.Log, colony *model.Colony) {
	for _, fid := range sortedFleetIDsAtColony(state, colony) {
		fleet := state.Fleets[fid]
		for _, sq := range fleet.Squadrons {
			if !sq.Flagship.Class.CanCarryFighters() {
				continue
			}
			for len(sq.Flagship.Cargo.Fighters) < hangarSlots(sq.Flagship.Class) && len(colony.FighterSquadrons) > 0 {
				fighter := colony.FighterSquadrons[0]
				colony.FighterSquadrons = colony.FighterSquadrons[1:]
				sq.Flagship.Cargo.Fighters = append(sq.Flagship.Cargo.Fighters, fighter.ID)
			}
		}
	}
}

func hangarSlots(class model.ShipClass) int {
	switch class {
	case model.Carrier:
		return 12
	case model.LightCarrier:
		return 6
	default:
		return 0
	}
}

func sortedFleetIDsAtColony(state *model.GameState, colony *model.Colony) []ident.FleetId {
	var ids []ident.FleetId
	for id, f := range state.Fleets {
		if f.System == colony.System && f.Owner == colony.Owner {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func sortedCommandColonyIDs(state *model.GameState) []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(state.Colonies))
	for id := range state.Colonies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func sortedPacketHouseIDs(packets map[ident.HouseId]model.CommandPacket) []ident.HouseId {
	ids := make([]ident.HouseId, 0, len(packets))
	for id := range packets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
