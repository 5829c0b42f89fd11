package economy

import (
	"sort"

	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// Upkeep sums ship, facility, and ground-unit maintenance for one house
// (§4.5 step 4): "per-class cost; crippled ships cost 1.5x" plus
// per-facility and per-ground-unit upkeep.
func Upkeep(cfg config.Config, state *model.GameState, house ident.HouseId) int {
	total := 0

	for _, f := range state.Fleets {
		if f.Owner != house {
			continue
		}
		rate := f.MaintenanceRate()
		for _, sq := range f.Squadrons {
			for _, s := range sq.AllShips() {
				total += shipUpkeep(cfg, s, rate)
			}
		}
		for _, s := range f.Spacelift {
			total += shipUpkeep(cfg, s, rate)
		}
	}

	for _, c := range state.Colonies {
		if c.Owner != house {
			continue
		}
		for _, fid := range c.Facilities {
			if fac, ok := state.Facilities[fid]; ok {
				if fc, ok := cfg.Facilities[fac.Kind]; ok {
					total += fc.Upkeep
				}
			}
		}
		total += c.GroundUnits.Batteries * cfg.GroundUnits["battery"].Upkeep
		total += c.GroundUnits.Armies * cfg.GroundUnits["army"].Upkeep
		total += c.GroundUnits.Marines * cfg.GroundUnits["marine"].Upkeep
		total += c.GroundUnits.Shields * cfg.GroundUnits["shield"].Upkeep
	}

	return total
}

func shipUpkeep(cfg config.Config, s model.Ship, fleetRate float64) int {
	base := cfg.ShipMaintenance[s.Class]
	cost := float64(base) * fleetRate
	if s.Crippled {
		cost *= cfg.CrippledMaintenanceMultiplier
	}
	return int(cost)
}

// salvageCandidate is a ship eligible for shortfall-cascade salvage,
// carrying enough back-reference to remove it from its fleet.
type salvageCandidate struct {
	fleet    *model.Fleet
	squadron *model.Squadron // nil if the ship is a spacelift ship
	ship     model.Ship
	credit   int
}

// RunMaintenanceUpkeep executes §4.5 step 4 for every house: deduct
// upkeep if affordable, else run the four-phase shortfall cascade.
func RunMaintenanceUpkeep(cfg config.Config, state *model.GameState, log *events.Log) {
	for _, hid := range sortedHouseIDs(state) {
		house := state.Houses[hid]
		upkeep := Upkeep(cfg, state, hid)

		if house.Treasury >= upkeep {
			house.Treasury -= upkeep
			house.ConsecutiveShortfallTurns = 0
			continue
		}

		runShortfallCascade(cfg, state, log, house, upkeep)
	}
	state.PruneEmptyFleets()
}

func runShortfallCascade(cfg config.Config, state *model.GameState, log *events.Log, house *model.House, upkeep int) {
	deficit := upkeep - house.Treasury

	// Phase (a): salvage mothballed ships first.
	deficit = salvagePhase(cfg, state, log, house, deficit, model.FleetMothballed)

	// Phase (b): Reserve, then lowest-value Active.
	if deficit > 0 {
		deficit = salvagePhase(cfg, state, log, house, deficit, model.FleetReserve)
	}
	if deficit > 0 {
		deficit = salvagePhase(cfg, state, log, house, deficit, model.FleetActive)
	}

	// Phase (c): strip infrastructure for PP at a configured rate.
	if deficit > 0 {
		const ppPerUnit = 10
		colonies := ownedColoniesSorted(state, house.ID)
		for _, c := range colonies {
			for deficit > 0 && c.InfrastructureDamage < 1.0 {
				c.InfrastructureDamage += 0.01
				house.Treasury += ppPerUnit
				deficit -= ppPerUnit
				log.Append(events.Event{Kind: events.MaintenanceShortfall, Turn: state.Turn, Phase: "maintenance",
					House: house.ID, Colony: c.ID, Message: "infrastructure stripped for PP",
					Data: map[string]any{"pp": ppPerUnit}})
			}
			if deficit <= 0 {
				break
			}
		}
	}

	// Phase (d): zero the treasury, escalate prestige penalty, maybe eliminate.
	house.Treasury = 0
	house.ConsecutiveShortfallTurns++

	penalty := cfg.Prestige.ShortfallPrestigeBase +
		cfg.Prestige.ShortfallPrestigeIncrement*(house.ConsecutiveShortfallTurns-1)
	house.Prestige -= penalty
	log.Append(events.Event{Kind: events.MaintenanceShortfall, Turn: state.Turn, Phase: "maintenance", House: house.ID,
		Message: "upkeep shortfall", Data: map[string]any{"consecutive_turns": house.ConsecutiveShortfallTurns, "prestige_penalty": penalty}})

	if house.ConsecutiveShortfallTurns >= cfg.Prestige.ShortfallEliminationThreshold {
		eliminateHouse(cfg, state, log, house)
	}
}

// salvagePhase sells ships of the given fleet status for 50% PC credit
// (cfg.SalvageRate), lowest-value first, until deficit is cleared or no
// more candidates of this status remain. Fleets emptied by salvage are
// deleted (§4.5 step 4 phase b).
func salvagePhase(cfg config.Config, state *model.GameState, log *events.Log, house *model.House, deficit int, status model.FleetStatus) int {
	var candidates []salvageCandidate
	for _, fid := range sortedFleetIDs(state) {
		f := state.Fleets[fid]
		if f.Owner != house.ID || f.Status != status {
			continue
		}
		for _, sq := range f.Squadrons {
			for _, s := range sq.AllShips() {
				credit := int(float64(cfg.Ships[s.Class].Cost) * cfg.SalvageRate)
				candidates = append(candidates, salvageCandidate{fleet: f, squadron: sq, ship: s, credit: credit})
			}
		}
		for _, s := range f.Spacelift {
			credit := int(float64(cfg.Ships[s.Class].Cost) * cfg.SalvageRate)
			candidates = append(candidates, salvageCandidate{fleet: f, ship: s, credit: credit})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].credit < candidates[j].credit })

	for _, cand := range candidates {
		if deficit <= 0 {
			break
		}
		removeShipFromFleet(cand.fleet, cand.squadron, cand.ship.ID)
		house.Treasury += cand.credit
		deficit -= cand.credit
		log.Append(events.Event{Kind: events.MaintenanceShortfall, Turn: state.Turn, Phase: "maintenance", House: house.ID,
			Fleet: cand.fleet.ID, Message: "ship salvaged for shortfall", Data: map[string]any{"credit": cand.credit}})
	}

	return deficit
}

func removeShipFromFleet(f *model.Fleet, sq *model.Squadron, shipID ident.ShipId) {
	if sq == nil {
		for i, s := range f.Spacelift {
			if s.ID == shipID {
				f.Spacelift = append(f.Spacelift[:i], f.Spacelift[i+1:]...)
				return
			}
		}
		return
	}
	if sq.Flagship.ID == shipID {
		if _, ok := sq.RemoveFlagship(); !ok {
			f.RemoveSquadron(sq.ID)
		}
		return
	}
	for i, e := range sq.Escorts {
		if e.ID == shipID {
			sq.Escorts = append(sq.Escorts[:i], sq.Escorts[i+1:]...)
			return
		}
	}
}

func eliminateHouse(cfg config.Config, state *model.GameState, log *events.Log, house *model.House) {
	house.Status = model.DefensiveCollapse

	for _, fid := range sortedFleetIDs(state) {
		f := state.Fleets[fid]
		if f.Owner != house.ID {
			continue
		}
		for _, sq := range f.Squadrons {
			for _, s := range sq.AllShips() {
				house.Prestige += int(float64(cfg.Ships[s.Class].Cost) * cfg.SalvageRate / 100)
			}
		}
		state.DeleteFleet(fid)
	}

	log.Append(events.Event{Kind: events.HouseEliminated, Turn: state.Turn, Phase: "maintenance", House: house.ID,
		Message: "defensive collapse: consecutive shortfall threshold reached"})
}

func ownedColoniesSorted(state *model.GameState, house ident.HouseId) []*model.Colony {
	var out []*model.Colony
	for _, cid := range sortedColonyIDs(state) {
		c := state.Colonies[cid]
		if c.Owner == house {
			out = append(out, c)
		}
	}
	return out
}

func sortedFleetIDs(state *model.GameState) []ident.FleetId {
	ids := make([]ident.FleetId, 0, len(state.Fleets))
	for id := range state.Fleets {
		ids = append(ids, id)
	}
	sortByString(ids, func(id ident.FleetId) string { return id.String() })
	return ids
}
