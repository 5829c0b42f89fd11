package construction

import (
	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// completeConstructionProject dispatches one finished ConstructionProject
// per §4.5 step 1: ships other than Fighter go to
// state.PendingMilitaryCommissions for next Command's step 1; every
// other kind — including Fighter, which is colony-resident rather than
// fleet-mobile — commissions directly onto the colony or facility.
func completeConstructionProject(cfg config.Config, state *model.GameState, log *events.Log, colony *model.Colony, house *model.House, facilityID ident.FacilityId, facility *model.Facility, p *model.ConstructionProject) {
	switch p.Type {
	case model.ConstructShip:
		class := model.ShipClass(p.Item)
		if class == model.Fighter {
			commissionFighter(cfg, state, log, colony)
			return
		}
		state.PendingMilitaryCommissions = append(state.PendingMilitaryCommissions, model.PendingCommission{
			Colony: colony.ID, Facility: facilityID, Class: class,
		})

	case model.ConstructFacility:
		newFacility := &model.Facility{Kind: model.FacilityKind(p.Item), BaseDocks: cfg.Facilities[model.FacilityKind(p.Item)].BaseDocks}
		newID := ident.FacilityId(p.ID) // the project's id doubles as its own facility's id once commissioned
		state.Facilities[newID] = newFacility
		colony.Facilities = append(colony.Facilities, newID)
		log.Append(events.Event{Kind: events.BuildingCompleted, Turn: state.Turn, Phase: "maintenance", House: house.ID,
			Colony: colony.ID, Message: "facility commissioned", Data: map[string]any{"kind": p.Item}})

	case model.ConstructGroundUnit:
		commissionGroundUnit(cfg, state, log, colony, house, p)

	case model.ConstructIndustrial:
		colony.IU++
		log.Append(events.Event{Kind: events.BuildingCompleted, Turn: state.Turn, Phase: "maintenance", House: house.ID,
			Colony: colony.ID, Message: "industrial unit commissioned"})

	case model.ConstructInfrastructure:
		colony.InfrastructureDamage -= 0.10
		if colony.InfrastructureDamage < 0 {
			colony.InfrastructureDamage = 0
		}
		log.Append(events.Event{Kind: events.BuildingCompleted, Turn: state.Turn, Phase: "maintenance", House: house.ID,
			Colony: colony.ID, Message: "infrastructure repaired"})
	}
}

func commissionFighter(cfg config.Config, state *model.GameState, log *events.Log, colony *model.Colony) {
	stats := cfg.Ships[model.Fighter]
	colony.FighterSquadrons = append(colony.FighterSquadrons, model.Ship{
		Class: model.Fighter,
		Stats: model.Stats{AS: stats.BaseAS, DS: stats.BaseDS, HP: stats.BaseHP},
	})
	log.Append(events.Event{Kind: events.BuildingCompleted, Turn: state.Turn, Phase: "maintenance", Colony: colony.ID,
		Message: "fighter commissioned to colony defense"})
}

func commissionGroundUnit(cfg config.Config, state *model.GameState, log *events.Log, colony *model.Colony, house *model.House, p *model.ConstructionProject) {
	gc := cfg.GroundUnits[p.Item]

	if (p.Item == "army" || p.Item == "marine") && gc.PopulationCost > 0 {
		remaining := colony.PopulationSouls - int64(gc.PopulationCost)
		if remaining < cfg.Population.MinViableSouls {
			house.Treasury += p.CostPaid
			log.Append(events.Event{Kind: events.EngineWarning, Turn: state.Turn, Phase: "maintenance", House: house.ID,
				Colony: colony.ID, Message: "ground unit recruit refunded: would drop colony below minimum viable population"})
			return
		}
		colony.PopulationSouls = remaining
	}

	switch p.Item {
	case "battery":
		colony.GroundUnits.Batteries++
	case "army":
		colony.GroundUnits.Armies++
	case "marine":
		colony.GroundUnits.Marines++
	case "shield":
		colony.GroundUnits.Shields++
	}

	log.Append(events.Event{Kind: events.UnitRecruited, Turn: state.Turn, Phase: "maintenance", House: house.ID,
		Colony: colony.ID, Message: "ground unit commissioned", Data: map[string]any{"kind": p.Item}})
}

// completeRepairProject clears the target's crippled flag (§4.5 step 2).
func completeRepairProject(state *model.GameState, log *events.Log, p *model.RepairProject) {
	switch p.TargetType {
	case model.RepairShip:
		f, ok := state.Fleets[p.FleetID]
		if !ok || p.SquadronIndex >= len(f.Squadrons) {
			return
		}
		sq := f.Squadrons[p.SquadronIndex]
		if p.ShipIndex == 0 {
			sq.Flagship.Crippled = false
		} else if p.ShipIndex-1 < len(sq.Escorts) {
			sq.Escorts[p.ShipIndex-1].Crippled = false
		}
		log.Append(events.Event{Kind: events.BuildingCompleted, Turn: state.Turn, Phase: "maintenance", Fleet: f.ID,
			Message: "ship repair completed"})

	case model.RepairStarbase:
		if facility, ok := state.Facilities[ident.FacilityId(p.StarbaseID)]; ok {
			facility.Crippled = false
			log.Append(events.Event{Kind: events.BuildingCompleted, Turn: state.Turn, Phase: "maintenance",
				Message: "starbase repair completed"})
		}
	}
}

// CommissionMilitary executes §4.3 step 1: drain
// state.PendingMilitaryCommissions, creating each ship and assigning it
// to a qualifying fleet at its colony (scouts to a pure-scout fleet,
// everything else to a combat-capable fleet; a new fleet is created if
// none qualifies). Per §9's resolved open question (Scenario B), a
// commission proceeds even if its originating facility no longer exists
// or has changed hands — the build completed before any such loss.
func CommissionMilitary(cfg config.Config, state *model.GameState, log *events.Log, idGen *ident.Generator) {
	pending := state.PendingMilitaryCommissions
	state.PendingMilitaryCommissions = nil

	for _, pc := range pending {
		colony, ok := state.Colonies[pc.Colony]
		if !ok {
			log.Append(events.Event{Kind: events.ShipProductionLost, Turn: state.Turn, Phase: "command",
				Message: "commission dropped: colony no longer exists", Data: map[string]any{"class": pc.Class}})
			continue
		}
		house := state.Houses[colony.Owner]
		if house == nil {
			continue
		}

		stats := cfg.Ships[pc.Class]
		ship := model.Ship{
			ID:    idGen.NextShipId(),
			Class: pc.Class,
			Stats: model.Stats{AS: stats.BaseAS, DS: stats.BaseDS, HP: stats.BaseHP},
		}

		fleet := findOrCreateCommissionFleet(state, colony, pc.Class, idGen)
		squadron := &model.Squadron{ID: idGen.NextSquadronId(), Type: squadronTypeFor(pc.Class), Flagship: ship}
		fleet.Squadrons = append(fleet.Squadrons, squadron)

		log.Append(events.Event{Kind: events.ShipCommissioned, Turn: state.Turn, Phase: "command", House: house.ID,
			Colony: colony.ID, Fleet: fleet.ID, Message: "ship commissioned", Data: map[string]any{"class": pc.Class}})
	}
}

func squadronTypeFor(class model.ShipClass) model.SquadronType {
	if class.IsScout() {
		return model.IntelSquadron
	}
	return model.CombatSquadron
}

// findOrCreateCommissionFleet finds a fleet at colony's system owned by
// the colony's house that qualifies to receive class (a pure-scout
// fleet for scouts, a non-scout fleet otherwise), creating one if none
// qualifies (§4.3 step 1).
func findOrCreateCommissionFleet(state *model.GameState, colony *model.Colony, class model.ShipClass, idGen *ident.Generator) *model.Fleet {
	wantScout := class.IsScout()

	for _, fid := range sortedFleetIDsAt(state, colony.System, colony.Owner) {
		f := state.Fleets[fid]
		if isPureScoutFleet(f) == wantScout {
			return f
		}
	}

	fleet := &model.Fleet{
		ID:     idGen.NextFleetId(),
		Owner:  colony.Owner,
		System: colony.System,
		Status: model.FleetActive,
	}
	state.Fleets[fleet.ID] = fleet
	return fleet
}

func isPureScoutFleet(f *model.Fleet) bool {
	if len(f.Squadrons) == 0 {
		return false
	}
	for _, sq := range f.Squadrons {
		if !sq.Flagship.Class.IsScout() {
			return false
		}
		for _, e := range sq.Escorts {
			if !e.Class.IsScout() {
				return false
			}
		}
	}
	return true
}

func sortedFleetIDsAt(state *model.GameState, system ident.SystemId, owner ident.HouseId) []ident.FleetId {
	var ids []ident.FleetId
	for id, f := range state.Fleets {
		if f.System == system && f.Owner == owner {
			ids = append(ids, id)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j].String() < ids[j-1].String(); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
