package engine

import (
	"houseturn/internal/config"
	"houseturn/internal/construction"
	"houseturn/internal/economy"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/orders"
	"houseturn/internal/starmap"
)

// runMaintenance executes the five sub-steps of §4.5 in order:
// construction and repair advance their queues, stored fleet orders
// activate and non-combat order types execute, upkeep is charged (or
// cascades into the shortfall sequence), and squadron/fighter caps are
// enforced last so a house's production this very turn can push it
// over cap before the grace-period timers start.
func runMaintenance(cfg config.Config, state *model.GameState, log *events.Log, graph *starmap.Graph, idGen *ident.Generator) {
	construction.AdvanceAll(cfg, state, log, idGen)

	orders.Activate(state, log, graph)
	orders.RunSeekHome(state, log, graph)
	orders.RunRendezvous(state, log)
	orders.RunSalvage(cfg, state, log, graph)
	orders.RunFleetStatusOrders(state, log)
	state.PruneEmptyFleets()

	economy.RunMaintenanceUpkeep(cfg, state, log)

	enforceCapacity(cfg, state, log)
}

func sortedMaintenanceHouseIDs(state *model.GameState) []ident.HouseId {
	ids := make([]ident.HouseId, 0, len(state.Houses))
	for id := range state.Houses {
		ids = append(ids, id)
	}
	sortMaintIDs(ids)
	return ids
}

func sortedMaintenanceColonyIDs(state *model.GameState) []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(state.Colonies))
	for id := range state.Colonies {
		ids = append(ids, id)
	}
	sortMaintIDs(ids)
	return ids
}

func sortedMaintenanceFleetIDs(state *model.GameState) []ident.FleetId {
	ids := make([]ident.FleetId, 0, len(state.Fleets))
	for id := range state.Fleets {
		ids = append(ids, id)
	}
	sortMaintIDs(ids)
	return ids
}

type stringer interface{ String() string }

func sortMaintIDs[T stringer](ids []T) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j].String() < ids[j-1].String(); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
