package engine

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"houseturn/internal/config"
	"houseturn/internal/construction"
	"houseturn/internal/economy"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/internal/orders"
	"houseturn/internal/starmap"
)

// TestScenarioA_QueueOrdering: colony with 1 Spaceport (base 5 docks,
// CST 1, effective 5). Submit 7 Frigate builds. Expected: 5 active, 2
// queued in submission order; after one Maintenance pass the 5 land in
// PendingMilitaryCommissions and the 2 queued builds are promoted to
// active; the next Command commissions the 5; no Frigate is lost.
func TestScenarioA_QueueOrdering(t *testing.T) {
	g := ident.NewGenerator(401)
	state := model.NewGameState()
	cfg := config.Defaults()

	house, hid := newTestHouse(g)
	house.Treasury = 100_000
	house.TechLevels[model.TechCST] = 1
	state.Houses[hid] = house

	sid := g.NextSystemId()
	cid := g.NextColonyId()
	colony := model.NewColony(cid, hid, sid, model.PlanetClass(""), model.ResourceRating(""))
	state.Colonies[cid] = colony

	facilityID := g.NextFacilityId()
	facility := &model.Facility{Kind: model.Spaceport, BaseDocks: 5}
	state.Facilities[facilityID] = facility
	colony.Facilities = append(colony.Facilities, facilityID)

	log := events.NewLog()
	build := model.BuildCommand{Colony: cid, Facility: facilityID, Type: model.ConstructShip, Item: string(model.Frigate), Quantity: 7}
	construction.SubmitBuild(cfg, state, log, house, build, g)

	require.Len(t, facility.ConstructionActive, 5, "5 of 7 should be active immediately")
	require.Len(t, facility.ConstructionQueue, 2, "the remaining 2 should be queued")

	construction.AdvanceAll(cfg, state, log, g)
	require.Len(t, state.PendingMilitaryCommissions, 5, "all 5 active Frigates should complete in one Maintenance pass")
	require.Len(t, facility.ConstructionActive, 2, "the queued 2 should now be active")
	require.Empty(t, facility.ConstructionQueue)

	construction.CommissionMilitary(cfg, state, log, g)
	require.Empty(t, state.PendingMilitaryCommissions)

	commissioned := 0
	for _, f := range state.Fleets {
		for _, sq := range f.Squadrons {
			if sq.Flagship.Class == model.Frigate {
				commissioned++
			}
		}
	}
	require.Equal(t, 5, commissioned, "no Frigate should be lost across the commissioning handoff")
}

// TestScenarioB_CommissioningRace: ships that completed construction
// before their shipyard was destroyed still commission — only projects
// still in progress at destruction time are lost.
func TestScenarioB_CommissioningRace(t *testing.T) {
	g := ident.NewGenerator(402)
	state := model.NewGameState()
	cfg := config.Defaults()

	house, hid := newTestHouse(g)
	state.Houses[hid] = house

	sid := g.NextSystemId()
	cid := g.NextColonyId()
	colony := model.NewColony(cid, hid, sid, model.PlanetClass(""), model.ResourceRating(""))
	state.Colonies[cid] = colony

	facilityID := g.NextFacilityId()
	state.PendingMilitaryCommissions = []model.PendingCommission{
		{Colony: cid, Facility: facilityID, Class: model.Destroyer},
		{Colony: cid, Facility: facilityID, Class: model.Destroyer},
		{Colony: cid, Facility: facilityID, Class: model.Destroyer},
	}

	// The shipyard facility itself is gone by the time Command runs
	// (destroyed earlier this turn in Conflict) -- the pending queue
	// entries reference it only by id, not a live pointer.
	delete(state.Facilities, facilityID)

	log := events.NewLog()
	construction.CommissionMilitary(cfg, state, log, g)

	commissioned := 0
	for _, f := range state.Fleets {
		for _, sq := range f.Squadrons {
			if sq.Flagship.Class == model.Destroyer {
				commissioned++
			}
		}
	}
	require.Equal(t, 3, commissioned, "ships that already finished building still commission after the facility is lost")
}

// TestScenarioC_SimultaneousColonize: houses A and B each send an
// ETAC fleet with a Colonize order to the same empty system S. The
// deterministic (attacker-house, fleet) sort picks exactly one winner;
// the loser's fleet survives at S with its order marked failed.
func TestScenarioC_SimultaneousColonize(t *testing.T) {
	g := ident.NewGenerator(404)
	state := model.NewGameState()

	houseA, hidA := newTestHouse(g)
	houseB, hidB := newTestHouse(g)
	state.Houses[hidA] = houseA
	state.Houses[hidB] = houseB

	sid := g.NextSystemId()
	state.Systems[sid] = &model.System{ID: sid, Planet: &model.Planet{Class: model.PlanetClass("terran"), Resources: model.ResourceRating("average")}}

	newColonizer := func(hid ident.HouseId) *model.Fleet {
		fid := g.NextFleetId()
		fleet := &model.Fleet{
			ID:        fid,
			Owner:     hid,
			System:    sid,
			Spacelift: []model.Ship{{ID: g.NextShipId(), Class: model.ETAC, Cargo: model.Cargo{ColonistPTUs: 100}}},
		}
		state.Fleets[fid] = fleet
		state.FleetOrders[fid] = &model.Order{Fleet: fid, Type: model.OrderColonize, TargetSystem: sid}
		return fleet
	}

	fleetA := newColonizer(hidA)
	fleetB := newColonizer(hidB)

	graph := starmap.Build(state.Systems)
	log := events.NewLog()
	orders.RunColonize(state, log, graph, g)

	winner, loser := fleetA, fleetB
	if hidB.String() < hidA.String() {
		winner, loser = fleetB, fleetA
	}

	require.Equal(t, model.StateCompleted, state.FleetOrders[winner.ID].State, "the lower-sorting house's fleet should win the colonize")
	require.Equal(t, model.StateFailed, state.FleetOrders[loser.ID].State, "the other fleet's colonize should fail")

	colony := state.ColonyAt(sid)
	require.NotNil(t, colony)
	require.Equal(t, winner.Owner, colony.Owner, "the winner's house should own the new colony")

	require.Contains(t, state.Fleets, loser.ID, "the losing fleet survives at S")
}

// TestScenarioD_ShortfallCascade: treasury 40, upkeep 100. No
// mothballed ships, so phase (a) does nothing; phase (b) salvages the
// one active ship whose credit (PC/2) covers 30 of the 60 deficit;
// phase (c) strips 3 units of infrastructure at 10 PP/unit to cover
// the rest; the final treasury nets to zero after upkeep is deducted.
func TestScenarioD_ShortfallCascade(t *testing.T) {
	g := ident.NewGenerator(405)
	state := model.NewGameState()
	cfg := config.Defaults()
	cfg.Ships[model.Scout] = config.ShipStats{Cost: 60, BuildTurns: 1, MinCST: 1}
	cfg.ShipMaintenance[model.Scout] = 100

	house, hid := newTestHouse(g)
	house.Treasury = 40
	startingPrestige := house.Prestige
	state.Houses[hid] = house

	sid := g.NextSystemId()
	cid := g.NextColonyId()
	colony := model.NewColony(cid, hid, sid, model.PlanetClass(""), model.ResourceRating(""))
	colony.InfrastructureDamage = 0
	state.Colonies[cid] = colony

	fleet := &model.Fleet{
		ID:     g.NextFleetId(),
		Owner:  hid,
		System: sid,
		Status: model.FleetActive,
		Squadrons: []*model.Squadron{
			{ID: g.NextSquadronId(), Type: model.CombatSquadron, Flagship: model.Ship{ID: g.NextShipId(), Class: model.Scout}},
		},
	}
	state.Fleets[fleet.ID] = fleet

	log := events.NewLog()
	economy.RunMaintenanceUpkeep(cfg, state, log)

	require.Empty(t, fleet.Squadrons, "the only active ship should have been salvaged")
	require.InDelta(t, 0.03, colony.InfrastructureDamage, 1e-9, "3 units of infrastructure should have been stripped")
	require.Equal(t, 0, house.Treasury, "upkeep exactly exhausts the recovered treasury")
	require.Equal(t, 1, house.ConsecutiveShortfallTurns)
	require.Equal(t, startingPrestige-cfg.Prestige.ShortfallPrestigeBase, house.Prestige, "prestige should drop by the configured base on the first shortfall turn")
}

// TestScenarioE_SpyScoutDeployment: fleet F has 1 Scout and 2
// Frigates and a SpyPlanet order. Deploying the scout removes only
// the Scout, spawns an independent SpyScout entity, and leaves F
// intact since it still carries the Frigates.
func TestScenarioE_SpyScoutDeployment(t *testing.T) {
	g := ident.NewGenerator(406)
	state := model.NewGameState()

	house, hid := newTestHouse(g)
	state.Houses[hid] = house

	home := g.NextSystemId()
	target := g.NextSystemId()
	state.Systems[home] = &model.System{ID: home, Lanes: []ident.SystemId{target}}
	state.Systems[target] = &model.System{ID: target, Lanes: []ident.SystemId{home}}

	fid := g.NextFleetId()
	fleet := &model.Fleet{
		ID:     fid,
		Owner:  hid,
		System: home,
		Squadrons: []*model.Squadron{
			{ID: g.NextSquadronId(), Type: model.CombatSquadron, Flagship: model.Ship{ID: g.NextShipId(), Class: model.Scout}},
			{ID: g.NextSquadronId(), Type: model.CombatSquadron, Flagship: model.Ship{ID: g.NextShipId(), Class: model.Frigate}},
			{ID: g.NextSquadronId(), Type: model.CombatSquadron, Flagship: model.Ship{ID: g.NextShipId(), Class: model.Frigate}},
		},
	}
	state.Fleets[fid] = fleet
	state.FleetOrders[fid] = &model.Order{Fleet: fid, Type: model.OrderSpyPlanet, TargetSystem: target}

	graph := starmap.Build(state.Systems)
	log := events.NewLog()
	orders.DeploySpyScouts(state, log, graph, g)

	require.Contains(t, state.Fleets, fid, "fleet should survive: it still carries its two Frigates")
	require.Len(t, state.Fleets[fid].Squadrons, 2, "only the Scout squadron should have been removed")
	for _, sq := range state.Fleets[fid].Squadrons {
		require.Equal(t, model.Frigate, sq.Flagship.Class)
	}

	require.Len(t, state.SpyScouts, 1, "a new independent SpyScout entity should have been spawned")
	for _, scout := range state.SpyScouts {
		require.Equal(t, hid, scout.Owner)
		require.Equal(t, model.MissionSpyPlanet, scout.Mission)
	}

	require.Len(t, log.OfKind(events.OrderCompleted), 1)
}

// TestScenarioF_RendezvousMerge: three same-house fleets share a
// Rendezvous order to the system they already occupy; the lowest-id
// fleet becomes the host, the other two are merged in and deleted
// along with their orders.
func TestScenarioF_RendezvousMerge(t *testing.T) {
	g := ident.NewGenerator(403)
	state := model.NewGameState()

	house, hid := newTestHouse(g)
	state.Houses[hid] = house
	sid := g.NextSystemId()

	var fleetIDs []ident.FleetId
	for i := 0; i < 3; i++ {
		fid := g.NextFleetId()
		fleet := &model.Fleet{
			ID:     fid,
			Owner:  hid,
			System: sid,
			Squadrons: []*model.Squadron{
				{ID: g.NextSquadronId(), Type: model.CombatSquadron, Flagship: model.Ship{ID: g.NextShipId(), Class: model.Frigate}},
			},
		}
		state.Fleets[fid] = fleet
		state.FleetOrders[fid] = &model.Order{Fleet: fid, Type: model.OrderRendezvous, TargetSystem: sid}
		fleetIDs = append(fleetIDs, fid)
	}

	sort.Slice(fleetIDs, func(i, j int) bool { return fleetIDs[i].String() < fleetIDs[j].String() })
	host := fleetIDs[0]
	others := fleetIDs[1:]

	log := events.NewLog()
	orders.RunRendezvous(state, log)

	require.Contains(t, state.Fleets, host, "host fleet should survive")
	require.Len(t, state.Fleets[host].Squadrons, 3, "host should carry all three squadrons after merge")

	for _, other := range others {
		require.NotContains(t, state.Fleets, other, "merged fleet should be deleted")
		require.NotContains(t, state.FleetOrders, other, "merged fleet's order should be deleted")
	}

	mergedEvents := log.OfKind(events.FleetMerged)
	require.Len(t, mergedEvents, 1)
}
