package orders

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/simul"
	"houseturn/internal/starmap"
)

// RunSeekHome re-evaluates every SeekHome order's target each turn
// (§4.6 order 02: "choose closest friendly colony by jump count;
// re-evaluate every turn"), retargeting if the previous target colony
// has fallen (no longer owned by the fleet's house).
func RunSeekHome(state *model.GameState, log *events.Log, graph *starmap.Graph) {
	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		if order.Type != model.OrderSeekHome {
			continue
		}
		fleet, ok := state.Fleets[fid]
		if !ok {
			continue
		}

		if target := state.ColonyAt(order.TargetSystem); target != nil && target.Owner == fleet.Owner {
			continue // current target still friendly
		}

		candidates := friendlyColonySystems(state, fleet.Owner)
		closest, found := graph.ClosestSystem(fleet.System, candidates)
		if !found {
			continue
		}
		order.TargetSystem = closest
	}
}

func friendlyColonySystems(state *model.GameState, house ident.HouseId) []ident.SystemId {
	var out []ident.SystemId
	for _, cid := range sortedColonyIDs(state) {
		c := state.Colonies[cid]
		if c.Owner == house {
			out = append(out, c.System)
		}
	}
	return out
}

func sortedColonyIDs(state *model.GameState) []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(state.Colonies))
	for id := range state.Colonies {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j].String() < ids[j-1].String(); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

// RunRendezvous implements §4.6 order 15: when two or more same-house
// fleets at the target system share a Rendezvous order to that system,
// merge them into the lowest-fleet-id host.
func RunRendezvous(state *model.GameState, log *events.Log) {
	byHouseSystem := map[ident.HouseId]map[ident.SystemId][]ident.FleetId{}

	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		if order.Type != model.OrderRendezvous {
			continue
		}
		fleet, ok := state.Fleets[fid]
		if !ok || fleet.System != order.TargetSystem {
			continue
		}
		if byHouseSystem[fleet.Owner] == nil {
			byHouseSystem[fleet.Owner] = map[ident.SystemId][]ident.FleetId{}
		}
		byHouseSystem[fleet.Owner][fleet.System] = append(byHouseSystem[fleet.Owner][fleet.System], fid)
	}

	for _, bySystem := range byHouseSystem {
		for _, fleetIDs := range bySystem {
			if len(fleetIDs) < 2 {
				continue
			}
			host := fleetIDs[0]
			for _, fid := range fleetIDs[1:] {
				if fid.String() < host.String() {
					host = fid
				}
			}
			hostFleet := state.Fleets[host]
			for _, fid := range fleetIDs {
				if fid == host {
					continue
				}
				hostFleet.Merge(state.Fleets[fid])
				state.DeleteFleet(fid)
			}
			log.Append(events.Event{Kind: events.FleetMerged, Turn: state.Turn, Phase: "maintenance", Fleet: host,
				Message: "rendezvous merge"})
		}
	}
}

// RunSalvage implements §4.6 order 16: move to the closest friendly
// colony with a Spaceport or Shipyard, then destroy the fleet and
// credit the treasury 50% of each ship's build cost.
func RunSalvage(cfg config.Config, state *model.GameState, log *events.Log, graph *starmap.Graph) {
	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		if order.Type != model.OrderSalvage {
			continue
		}
		fleet, ok := state.Fleets[fid]
		if !ok {
			continue
		}
		house, ok := state.Houses[fleet.Owner]
		if !ok {
			continue
		}

		candidates := colonySystemsWithDockFacility(state, fleet.Owner)
		closest, found := graph.ClosestSystem(fleet.System, candidates)
		if !found {
			continue
		}

		if fleet.System != closest {
			path := graph.ShortestPath(fleet.System, closest)
			if len(path) >= 2 {
				fleet.System = path[1]
			}
			continue
		}

		credit := 0
		for _, sq := range fleet.Squadrons {
			for _, s := range sq.AllShips() {
				credit += int(float64(cfg.Ships[s.Class].Cost) * cfg.SalvageRate)
			}
		}
		for _, s := range fleet.Spacelift {
			credit += int(float64(cfg.Ships[s.Class].Cost) * cfg.SalvageRate)
		}
		house.Treasury += credit

		state.DeleteFleet(fid)
		log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "maintenance", House: house.ID,
			Fleet: fid, Message: "fleet salvaged", Data: map[string]any{"credit": credit}})
	}
}

func colonySystemsWithDockFacility(state *model.GameState, house ident.HouseId) []ident.SystemId {
	var out []ident.SystemId
	for _, cid := range sortedColonyIDs(state) {
		c := state.Colonies[cid]
		if c.Owner != house {
			continue
		}
		if c.HasFacilityKind(state.Facilities, model.Spaceport) || c.HasFacilityKind(state.Facilities, model.Shipyard) {
			out = append(out, c.System)
		}
	}
	return out
}

// RunFleetStatusOrders implements §4.6 orders 17/18/19: Reserve,
// Mothball, Reactivate all require being at a friendly colony
// (Mothball specifically requires a Spaceport there) and simply change
// the fleet's status.
func RunFleetStatusOrders(state *model.GameState, log *events.Log) {
	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		var target model.FleetStatus
		switch order.Type {
		case model.OrderReserve:
			target = model.FleetReserve
		case model.OrderMothball:
			target = model.FleetMothballed
		case model.OrderReactivate:
			target = model.FleetActive
		default:
			continue
		}

		fleet, ok := state.Fleets[fid]
		if !ok {
			continue
		}
		colony := state.ColonyAt(fleet.System)
		if colony == nil || colony.Owner != fleet.Owner {
			order.State = model.StateFailed
			continue
		}
		if order.Type == model.OrderMothball && !colony.HasFacilityKind(state.Facilities, model.Spaceport) {
			order.State = model.StateFailed
			continue
		}

		fleet.Status = target
		order.State = model.StateCompleted
		log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "maintenance", Fleet: fid,
			Message: "fleet status changed", Data: map[string]any{"status": target}})
	}
}

// DeploySpyScouts implements §4.6 orders 10/11/12: the fleet's single
// Scout is removed and deployed as an independent SpyScout entity;
// the fleet is deleted if left empty (§9, §3).
func DeploySpyScouts(state *model.GameState, log *events.Log, graph *starmap.Graph, idGen *ident.Generator) {
	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		mission := missionFor(order.Type)
		if mission == "" {
			continue
		}
		fleet, ok := state.Fleets[fid]
		if !ok {
			continue
		}
		house, ok := state.Houses[fleet.Owner]
		if !ok {
			continue
		}

		scout, removed := extractScout(fleet)
		if !removed {
			continue
		}

		path := graph.ShortestPath(fleet.System, order.TargetSystem)
		spyScout := &model.SpyScout{
			ID:       idGen.NextSpyScoutId(),
			Owner:    fleet.Owner,
			System:   fleet.System,
			ELI:      house.TechLevels[model.TechELI],
			Mission:  mission,
			State:    model.ScoutTraveling,
			JumpPath: path,
		}
		state.SpyScouts[spyScout.ID] = spyScout
		_ = scout

		if fleet.IsEmpty() {
			state.DeleteFleet(fid)
		}
		order.State = model.StateCompleted
		log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "conflict", Fleet: fid,
			Message: "scout deployed for espionage mission"})
	}
}

func missionFor(t model.OrderType) model.SpyMission {
	switch t {
	case model.OrderSpyPlanet:
		return model.MissionSpyPlanet
	case model.OrderHackStarbase:
		return model.MissionHackStarbase
	case model.OrderSpySystem:
		return model.MissionSpySystem
	default:
		return ""
	}
}

func extractScout(f *model.Fleet) (model.Ship, bool) {
	for _, sq := range f.Squadrons {
		if sq.Flagship.Class.IsScout() {
			scout := sq.Flagship
			f.RemoveSquadron(sq.ID)
			return scout, true
		}
		for i, e := range sq.Escorts {
			if e.Class.IsScout() {
				scout := e
				sq.Escorts = append(sq.Escorts[:i], sq.Escorts[i+1:]...)
				return scout, true
			}
		}
	}
	return model.Ship{}, false
}

// RunColonize implements §4.6 order 13 and §4.7's simultaneous-
// resolution protocol: every Colonize order targeting the same empty
// system is collected into one conflict group, sorted deterministically,
// and the winner founds the colony; losers with StandingAutoColonize
// retarget to their next candidate next turn (§9, Scenario C).
func RunColonize(state *model.GameState, log *events.Log, graph *starmap.Graph, idGen *ident.Generator) {
	var candidates []simul.Candidate

	for _, fid := range sortedOrderFleetIDs(state) {
		order := state.FleetOrders[fid]
		if order.Type != model.OrderColonize {
			continue
		}
		fleet, ok := state.Fleets[fid]
		if !ok || fleet.System != order.TargetSystem {
			continue
		}
		if state.ColonyAt(order.TargetSystem) != nil {
			order.State = model.StateFailed
			continue
		}

		key := order.TargetSystem.String()
		candidates = append(candidates, simul.Candidate{TargetKey: key, AttackerHouse: fleet.Owner, Fleet: fid})
	}

	groups := simul.Sort(candidates)
	outcomes := simul.ResolveWinnerTakesAll(groups)

	for _, o := range outcomes {
		order := state.FleetOrders[o.Candidate.Fleet]
		fleet := state.Fleets[o.Candidate.Fleet]
		if !o.Won {
			order.State = model.StateFailed
			log.Append(events.Event{Kind: events.OrderFailed, Turn: state.Turn, Phase: "conflict",
				House: o.Candidate.AttackerHouse, Fleet: o.Candidate.Fleet, Message: "colonize lost simultaneous resolution"})
			if order.StandingAutoColonize {
				retargetColonize(state, graph, fleet, order)
			}
			continue
		}

		sys, ok := state.Systems[order.TargetSystem]
		if !ok || !sys.HasPlanet() {
			order.State = model.StateFailed
			continue
		}

		colony := model.NewColony(idGen.NextColonyId(), o.Candidate.AttackerHouse, order.TargetSystem, sys.Planet.Class, sys.Planet.Resources)
		state.Colonies[colony.ID] = colony
		consumeColonistCargo(fleet)

		order.State = model.StateCompleted
		log.Append(events.Event{Kind: events.ColonyColonized, Turn: state.Turn, Phase: "conflict",
			House: o.Candidate.AttackerHouse, Fleet: o.Candidate.Fleet, Colony: colony.ID, System: colony.System,
			Message: "colony founded"})
	}
}

// retargetColonize implements the StandingAutoColonize rebind (§4.2
// step 5, Scenario C): a Colonize order that lost the simultaneous
// draw retargets to the next-closest uncolonized, unclaimed-this-turn
// system rather than sitting idle.
func retargetColonize(state *model.GameState, graph *starmap.Graph, fleet *model.Fleet, order *model.Order) {
	var candidates []ident.SystemId
	for id, sys := range state.Systems {
		if id == order.TargetSystem || !sys.HasPlanet() || state.ColonyAt(id) != nil {
			continue
		}
		candidates = append(candidates, id)
	}
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].String() < candidates[j-1].String(); j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	next, found := graph.ClosestSystem(fleet.System, candidates)
	if !found {
		return
	}
	order.TargetSystem = next
	order.State = model.StateInitiated
	order.MovementProgress = 0
}

func consumeColonistCargo(f *model.Fleet) {
	for i, s := range f.Spacelift {
		if s.Class == model.ETAC && s.Cargo.ColonistPTUs > 0 {
			f.Spacelift[i].Cargo.ColonistPTUs = 0
			return
		}
	}
}
