// Package orders implements the fleet order lifecycle state machine
// (§4.6): Initiate (validation/storage, §4.3 step 5), Activate (§4.5
// step 3), Execute (dispatched per order category from Conflict or
// Income/Maintenance), and the administrative zero-turn commands
// (§4.3 steps 3-4) that never pass through the stored-order pipeline
// at all.
package orders

import (
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/starmap"
)

// ValidateAndStore executes §4.3 step 5 for one submitted order:
// checks preconditions (fleet exists, owned, mobility allows it,
// target system known) and, if they hold, stores it keyed by fleet id,
// overwriting any prior pending order for that fleet.
func ValidateAndStore(state *model.GameState, log *events.Log, house *model.House, order model.Order) {
	fleet, ok := state.Fleets[order.Fleet]
	if !ok || fleet.Owner != house.ID {
		log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
			Fleet: order.Fleet, Message: "order dropped: fleet not owned or not found"})
		return
	}

	if requiresMotion(order.Type) && fleet.Status != model.FleetActive {
		log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
			Fleet: order.Fleet, Message: "order dropped: fleet is not Active"})
		return
	}

	if requiresTargetSystem(order.Type) {
		if _, ok := state.Systems[order.TargetSystem]; !ok {
			log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
				Fleet: order.Fleet, Message: "order dropped: target system unknown"})
			return
		}
	}

	if requiresCombatShips(order.Type) && !fleet.HasCombatShips() {
		log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
			Fleet: order.Fleet, Message: "order dropped: no combat ships present"})
		return
	}

	if requiresScout(order.Type) && fleet.ScoutCount() != 1 {
		log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
			Fleet: order.Fleet, Message: "order dropped: fleet must contain exactly one Scout"})
		return
	}

	if requiresETACCargo(order.Type) && !hasLoadedETAC(fleet) {
		log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
			Fleet: order.Fleet, Message: "order dropped: requires an ETAC with loaded colonist cargo"})
		return
	}

	if requiresTroopTransport(order.Type) && !hasLoadedTroopTransport(fleet) {
		log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "command", House: house.ID,
			Fleet: order.Fleet, Message: "order dropped: requires a loaded Troop Transport"})
		return
	}

	order.State = model.StateInitiated
	state.FleetOrders[order.Fleet] = &order
}

func requiresMotion(t model.OrderType) bool {
	switch t {
	case model.OrderMove, model.OrderSeekHome, model.OrderPatrol, model.OrderBlockade, model.OrderBombard,
		model.OrderInvade, model.OrderBlitz, model.OrderRendezvous, model.OrderSalvage:
		return true
	default:
		return false
	}
}

func requiresTargetSystem(t model.OrderType) bool {
	switch t {
	case model.OrderMove, model.OrderPatrol, model.OrderGuardStarbase, model.OrderGuardPlanet, model.OrderBlockade,
		model.OrderBombard, model.OrderInvade, model.OrderBlitz, model.OrderSpyPlanet, model.OrderHackStarbase,
		model.OrderSpySystem, model.OrderColonize, model.OrderRendezvous:
		return true
	default:
		return false
	}
}

func requiresCombatShips(t model.OrderType) bool {
	switch t {
	case model.OrderGuardStarbase, model.OrderGuardPlanet, model.OrderBlockade, model.OrderInvade, model.OrderBlitz:
		return true
	default:
		return false
	}
}

func requiresScout(t model.OrderType) bool {
	switch t {
	case model.OrderSpyPlanet, model.OrderHackStarbase, model.OrderSpySystem:
		return true
	default:
		return false
	}
}

func requiresETACCargo(t model.OrderType) bool {
	return t == model.OrderColonize
}

func requiresTroopTransport(t model.OrderType) bool {
	return t == model.OrderInvade || t == model.OrderBlitz
}

func hasLoadedETAC(f *model.Fleet) bool {
	for _, s := range f.ETACs() {
		if s.Cargo.ColonistPTUs > 0 {
			return true
		}
	}
	return false
}

func hasLoadedTroopTransport(f *model.Fleet) bool {
	for _, s := range f.TroopTransports() {
		if s.Cargo.Marines > 0 {
			return true
		}
	}
	return false
}

// Activate executes §4.5 step 3 for every stored order: transitions
// Initiated orders to Active (becoming "the current order of record"),
// and advances movement orders one jump along the shortest lane path.
func Activate(state *model.GameState, log *events.Log, graph *starmap.Graph) {
	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		fleet, ok := state.Fleets[fid]
		if !ok {
			delete(state.FleetOrders, fid)
			continue
		}

		if order.State == model.StateInitiated {
			order.State = model.StateActive
		}

		if requiresMotion(order.Type) && !order.TargetSystem.IsNil() {
			advanceMovement(fleet, order, graph)
		}
	}
}

// advanceMovement consumes one jump per turn along the shortest lane
// path toward the order's target system (§4.6 Move: "One jump per turn
// along the shortest lane path to target").
func advanceMovement(fleet *model.Fleet, order *model.Order, graph *starmap.Graph) {
	if fleet.System == order.TargetSystem {
		return
	}
	path := graph.ShortestPath(fleet.System, order.TargetSystem)
	if len(path) < 2 {
		return
	}
	fleet.System = path[1]
	order.MovementProgress++
}

func sortedOrderFleetIDs(state *model.GameState) []ident.FleetId {
	ids := make([]ident.FleetId, 0, len(state.FleetOrders))
	for id := range state.FleetOrders {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j].String() < ids[j-1].String(); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
