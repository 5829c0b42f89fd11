package orders

import (
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// Execute dispatches one administrative command (§4.3 steps 3-4).
func Execute(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	switch cmd.Kind {
	case "merge_fleets":
		mergeFleets(state, log, house, cmd)
	case "detach_ships":
		detachShips(state, log, house, cmd)
	case "transfer_ships":
		transferShips(state, log, house, cmd)
	case "load_cargo":
		loadCargo(state, log, house, cmd)
	case "unload_cargo":
		unloadCargo(state, log, house, cmd)
	case "load_fighters":
		loadFighters(state, log, house, cmd)
	case "unload_fighters":
		unloadFighters(state, log, house, cmd)
	case "assign_squadron_to_fleet":
		assignSquadronToFleet(state, log, house, cmd)
	case "transfer_ship_between_squadrons":
		transferShipBetweenSquadrons(state, log, house, cmd)
	default:
		log.Warning(state.Turn, "command", "unknown administrative command kind: "+cmd.Kind)
	}
}

func ownedFleet(state *model.GameState, house *model.House, id ident.FleetId) (*model.Fleet, bool) {
	f, ok := state.Fleets[id]
	if !ok || f.Owner != house.ID {
		return nil, false
	}
	return f, true
}

// mergeFleets implements JoinFleet's administrative cousin: same-house,
// same-system merge of SourceFleet into TargetFleet (§4.6 order 14).
func mergeFleets(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	src, ok1 := ownedFleet(state, house, cmd.SourceFleet)
	dst, ok2 := ownedFleet(state, house, cmd.TargetFleet)
	if !ok1 || !ok2 || src.System != dst.System {
		log.Warning(state.Turn, "command", "merge_fleets dropped: fleets not both owned and co-located")
		return
	}

	dst.Merge(src)
	state.DeleteFleet(src.ID)
	log.Append(events.Event{Kind: events.FleetMerged, Turn: state.Turn, Phase: "command", House: house.ID,
		Fleet: dst.ID, Other: house.ID, Message: "fleets merged"})
}

// detachShips splits the named squadron out of SourceFleet into a
// brand-new fleet at the same system.
func detachShips(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	src, ok := ownedFleet(state, house, cmd.SourceFleet)
	if !ok {
		log.Warning(state.Turn, "command", "detach_ships dropped: source fleet not owned")
		return
	}

	for i, sq := range src.Squadrons {
		if sq.ID == cmd.SquadronID {
			src.Squadrons = append(src.Squadrons[:i], src.Squadrons[i+1:]...)
			newFleet := &model.Fleet{ID: cmd.TargetFleet, Owner: house.ID, System: src.System, Status: model.FleetActive,
				Squadrons: []*model.Squadron{sq}}
			state.Fleets[newFleet.ID] = newFleet
			log.Append(events.Event{Kind: events.FleetMerged, Turn: state.Turn, Phase: "command", House: house.ID,
				Fleet: newFleet.ID, Message: "squadron detached to new fleet"})
			return
		}
	}
	log.Warning(state.Turn, "command", "detach_ships dropped: squadron not found in source fleet")
}

// transferShips moves a named squadron between two existing, co-located
// owned fleets.
func transferShips(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	src, ok1 := ownedFleet(state, house, cmd.SourceFleet)
	dst, ok2 := ownedFleet(state, house, cmd.TargetFleet)
	if !ok1 || !ok2 || src.System != dst.System {
		log.Warning(state.Turn, "command", "transfer_ships dropped: fleets not both owned and co-located")
		return
	}

	for i, sq := range src.Squadrons {
		if sq.ID == cmd.SquadronID {
			src.Squadrons = append(src.Squadrons[:i], src.Squadrons[i+1:]...)
			dst.Squadrons = append(dst.Squadrons, sq)
			log.Append(events.Event{Kind: events.FleetMerged, Turn: state.Turn, Phase: "command", House: house.ID,
				Fleet: dst.ID, Message: "squadron transferred"})
			return
		}
	}
	log.Warning(state.Turn, "command", "transfer_ships dropped: squadron not found in source fleet")
}

// loadCargo loads marines/colonist PTUs onto the fleet's spacelift
// ships (Troop Transports take Marines, ETACs take ColonistPTUs).
func loadCargo(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	f, ok := ownedFleet(state, house, cmd.SourceFleet)
	if !ok {
		log.Warning(state.Turn, "command", "load_cargo dropped: fleet not owned")
		return
	}
	for i, s := range f.Spacelift {
		if s.Class == model.TroopTransport && cmd.Marines > 0 {
			f.Spacelift[i].Cargo.Marines += cmd.Marines
			cmd.Marines = 0
		}
		if s.Class == model.ETAC && cmd.ColonistPTUs > 0 {
			f.Spacelift[i].Cargo.ColonistPTUs += cmd.ColonistPTUs
			cmd.ColonistPTUs = 0
		}
	}
	log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "command", House: house.ID,
		Fleet: f.ID, Message: "cargo loaded"})
}

// unloadCargo clears cargo from the fleet's spacelift ships (e.g. after
// Invade, or to abort a Colonize attempt).
func unloadCargo(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	f, ok := ownedFleet(state, house, cmd.SourceFleet)
	if !ok {
		log.Warning(state.Turn, "command", "unload_cargo dropped: fleet not owned")
		return
	}
	for i := range f.Spacelift {
		f.Spacelift[i].Cargo = model.Cargo{}
	}
	log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "command", House: house.ID,
		Fleet: f.ID, Message: "cargo unloaded"})
}

// loadFighters moves the colony's resident fighters, oldest first,
// onto each carrier in the fleet, up to its hangar capacity; the
// command's ShipIDs are not consulted.
func loadFighters(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	f, ok := ownedFleet(state, house, cmd.SourceFleet)
	if !ok {
		log.Warning(state.Turn, "command", "load_fighters dropped: fleet not owned")
		return
	}
	colony := state.ColonyAt(f.System)
	if colony == nil {
		log.Warning(state.Turn, "command", "load_fighters dropped: no colony at fleet's system")
		return
	}

	for _, sq := range f.Squadrons {
		if !sq.Flagship.Class.CanCarryFighters() {
			continue
		}
		for len(sq.Flagship.Cargo.Fighters) < hangarCapacity(sq.Flagship.Class) && len(colony.FighterSquadrons) > 0 {
			fighter := colony.FighterSquadrons[0]
			colony.FighterSquadrons = colony.FighterSquadrons[1:]
			sq.Flagship.Cargo.Fighters = append(sq.Flagship.Cargo.Fighters, fighter.ID)
		}
	}
	log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "command", House: house.ID,
		Fleet: f.ID, Message: "fighters loaded onto carrier"})
}

func hangarCapacity(class model.ShipClass) int {
	switch class {
	case model.Carrier:
		return 12
	case model.LightCarrier:
		return 6
	default:
		return 0
	}
}

// unloadFighters returns a carrier's embarked fighters to its
// co-located colony.
func unloadFighters(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	f, ok := ownedFleet(state, house, cmd.SourceFleet)
	if !ok {
		log.Warning(state.Turn, "command", "unload_fighters dropped: fleet not owned")
		return
	}
	colony := state.ColonyAt(f.System)
	if colony == nil {
		log.Warning(state.Turn, "command", "unload_fighters dropped: no colony at fleet's system")
		return
	}

	for _, sq := range f.Squadrons {
		if len(sq.Flagship.Cargo.Fighters) == 0 {
			continue
		}
		for range sq.Flagship.Cargo.Fighters {
			colony.FighterSquadrons = append(colony.FighterSquadrons, model.Ship{Class: model.Fighter})
		}
		sq.Flagship.Cargo.Fighters = nil
	}
	log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "command", House: house.ID,
		Fleet: f.ID, Message: "fighters unloaded to colony"})
}

// assignSquadronToFleet moves a squadron from the UnassignedSquadrons
// list of the colony at the target fleet's system into that fleet.
func assignSquadronToFleet(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	dst, ok := ownedFleet(state, house, cmd.TargetFleet)
	if !ok {
		log.Warning(state.Turn, "command", "assign_squadron_to_fleet dropped: target fleet not owned")
		return
	}
	colony := state.ColonyAt(dst.System)
	if colony == nil {
		return
	}
	for i, sq := range colony.UnassignedSquadrons {
		if sq.ID == cmd.SquadronID {
			colony.UnassignedSquadrons = append(colony.UnassignedSquadrons[:i], colony.UnassignedSquadrons[i+1:]...)
			dst.Squadrons = append(dst.Squadrons, sq)
			log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "command", House: house.ID,
				Fleet: dst.ID, Message: "unassigned squadron assigned to fleet"})
			return
		}
	}
}

// transferShipBetweenSquadrons moves one escort ship from SourceSquadron
// to TargetSquadron within the same fleet (re-organizing hulls without
// a full squadron detach).
func transferShipBetweenSquadrons(state *model.GameState, log *events.Log, house *model.House, cmd model.AdminCommand) {
	f, ok := ownedFleet(state, house, cmd.SourceFleet)
	if !ok || len(cmd.ShipIDs) == 0 {
		log.Warning(state.Turn, "command", "transfer_ship_between_squadrons dropped: fleet not owned or no ship named")
		return
	}

	var src, dst *model.Squadron
	for _, sq := range f.Squadrons {
		if sq.ID == cmd.SourceSquadron {
			src = sq
		}
		if sq.ID == cmd.TargetSquadron {
			dst = sq
		}
	}
	if src == nil || dst == nil {
		log.Warning(state.Turn, "command", "transfer_ship_between_squadrons dropped: squadron not found")
		return
	}

	shipID := cmd.ShipIDs[0]
	for i, e := range src.Escorts {
		if e.ID == shipID {
			src.Escorts = append(src.Escorts[:i], src.Escorts[i+1:]...)
			dst.Escorts = append(dst.Escorts, e)
			log.Append(events.Event{Kind: events.OrderCompleted, Turn: state.Turn, Phase: "command", House: house.ID,
				Fleet: f.ID, Message: "ship transferred between squadrons"})
			return
		}
	}
	log.Warning(state.Turn, "command", "transfer_ship_between_squadrons dropped: ship not found among source escorts")
}
