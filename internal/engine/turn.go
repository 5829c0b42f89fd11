// Package engine wires the four §4 phases into the single pure
// entrypoint Advance(state, packets, rng_seed) -> (state', events).
package engine

import (
	"houseturn/internal/combat"
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/rng"
	"houseturn/internal/starmap"
)

const (
	autopilotThreshold         = 3
	defensiveCollapseThreshold = 3
)

// Advance runs one full turn: Conflict, Command, Income, Maintenance,
// in that fixed order (§4). It depends only on its arguments — no
// wall-clock time, no global mutable state — so the same (cfg, state,
// packets, rngSeed, resolver) always reproduces the same result (§8
// property 1). state is updated in place and returned.
func Advance(cfg config.Config, state *model.GameState, packets map[ident.HouseId]model.CommandPacket, rngSeed uint64, resolver combat.Resolver) (*model.GameState, *events.Log, []combat.Report) {
	log := events.NewLog()
	stream := rng.New(rngSeed)
	idGen := ident.NewGenerator(rngSeed)
	graph := starmap.Build(state.Systems)

	updateHouseStatus(cfg, state, log, packets)

	reports := runConflict(cfg, state, log, packets, graph, stream, resolver, idGen)
	runCommand(cfg, state, log, packets, idGen)
	runIncome(cfg, state, log)
	runMaintenance(cfg, state, log, graph, idGen)

	recordTerminalOrders(state, log)
	state.Turn++

	return state, log, reports
}

// updateHouseStatus implements the Active -> Autopilot -> DefensiveCollapse
// status machine (§3): an empty or absent packet increments
// TurnsWithoutOrders, any submitted packet resets it; prestige < 0 for
// three consecutive turns escalates a currently MIA/Active house to
// DefensiveCollapse.
func updateHouseStatus(cfg config.Config, state *model.GameState, log *events.Log, packets map[ident.HouseId]model.CommandPacket) {
	for _, hid := range sortedTurnHouseIDs(state) {
		house := state.Houses[hid]
		if house.Status == model.DefensiveCollapse {
			continue
		}

		packet, submitted := packets[hid]
		if !submitted || packet.Empty() {
			house.TurnsWithoutOrders++
		} else {
			house.TurnsWithoutOrders = 0
		}

		if house.Status == model.Active && house.TurnsWithoutOrders >= autopilotThreshold {
			house.Status = model.Autopilot
			log.Append(events.Event{Kind: events.PrestigeAdjusted, Turn: state.Turn, Phase: "command", House: hid,
				Message: "house entered Autopilot: no packet for 3 consecutive turns"})
		}

		if house.Prestige < 0 {
			house.ConsecutiveNegativePrestigeTurns++
		} else {
			house.ConsecutiveNegativePrestigeTurns = 0
		}

		if house.ConsecutiveNegativePrestigeTurns >= defensiveCollapseThreshold {
			house.Status = model.DefensiveCollapse
			log.Append(events.Event{Kind: events.HouseEliminated, Turn: state.Turn, Phase: "command", House: hid,
				Message: "house entered DefensiveCollapse: prestige negative for 3 consecutive turns"})
		}
	}
}

// recordTerminalOrders populates state.TerminalOrderFleets from this
// turn's own OrderCompleted/OrderFailed/OrderAborted events so next
// turn's Command step 0 can prune them without reaching into a
// previous call's returned log (§4.3 step 0).
func recordTerminalOrders(state *model.GameState, log *events.Log) {
	var fleets []ident.FleetId
	for _, e := range log.OfKind(events.OrderCompleted) {
		fleets = append(fleets, e.Fleet)
	}
	for _, e := range log.OfKind(events.OrderFailed) {
		fleets = append(fleets, e.Fleet)
	}
	for _, e := range log.OfKind(events.OrderAborted) {
		fleets = append(fleets, e.Fleet)
	}
	state.TerminalOrderFleets = fleets
}

func sortedTurnHouseIDs(state *model.GameState) []ident.HouseId {
	ids := make([]ident.HouseId, 0, len(state.Houses))
	for id := range state.Houses {
		ids = append(ids, id)
	}
	sortMaintIDs(ids)
	return ids
}
