package orders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

func TestExecuteMergeFleets(t *testing.T) {
	g := ident.NewGenerator(501)
	state := model.NewGameState()
	house := model.NewHouse(g.NextHouseId(), "test")
	state.Houses[house.ID] = house
	sid := g.NextSystemId()

	src := &model.Fleet{ID: g.NextFleetId(), Owner: house.ID, System: sid,
		Squadrons: []*model.Squadron{{ID: g.NextSquadronId(), Flagship: model.Ship{ID: g.NextShipId(), Class: model.Frigate}}}}
	dst := &model.Fleet{ID: g.NextFleetId(), Owner: house.ID, System: sid,
		Squadrons: []*model.Squadron{{ID: g.NextSquadronId(), Flagship: model.Ship{ID: g.NextShipId(), Class: model.Frigate}}}}
	state.Fleets[src.ID] = src
	state.Fleets[dst.ID] = dst

	log := events.NewLog()
	cmd := model.AdminCommand{Kind: "merge_fleets", SourceFleet: src.ID, TargetFleet: dst.ID}
	Execute(state, log, house, cmd)

	require.NotContains(t, state.Fleets, src.ID, "source fleet should be deleted after merge")
	require.Len(t, state.Fleets[dst.ID].Squadrons, 2, "destination fleet should carry both squadrons")
	require.Len(t, log.OfKind(events.FleetMerged), 1)
}

func TestExecuteMergeFleetsRejectsUnownedSource(t *testing.T) {
	g := ident.NewGenerator(502)
	state := model.NewGameState()
	house := model.NewHouse(g.NextHouseId(), "test")
	other := model.NewHouse(g.NextHouseId(), "rival")
	state.Houses[house.ID] = house
	state.Houses[other.ID] = other
	sid := g.NextSystemId()

	src := &model.Fleet{ID: g.NextFleetId(), Owner: other.ID, System: sid}
	dst := &model.Fleet{ID: g.NextFleetId(), Owner: house.ID, System: sid}
	state.Fleets[src.ID] = src
	state.Fleets[dst.ID] = dst

	log := events.NewLog()
	cmd := model.AdminCommand{Kind: "merge_fleets", SourceFleet: src.ID, TargetFleet: dst.ID}
	Execute(state, log, house, cmd)

	require.Contains(t, state.Fleets, src.ID, "merge should be rejected: source not owned by the requesting house")
	require.Len(t, log.OfKind(events.EngineWarning), 1)
}

func TestExecuteUnknownKindWarns(t *testing.T) {
	g := ident.NewGenerator(503)
	state := model.NewGameState()
	house := model.NewHouse(g.NextHouseId(), "test")
	state.Houses[house.ID] = house

	log := events.NewLog()
	Execute(state, log, house, model.AdminCommand{Kind: "not_a_real_command"})

	require.Len(t, log.OfKind(events.EngineWarning), 1)
}
