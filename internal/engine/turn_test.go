package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

func TestUpdateHouseStatusEntersAutopilotAfterThreeEmptyTurns(t *testing.T) {
	g := ident.NewGenerator(21)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	state.Houses[hid] = house

	cfg := config.Defaults()
	packets := map[ident.HouseId]model.CommandPacket{}

	for turn := 1; turn <= 2; turn++ {
		log := events.NewLog()
		updateHouseStatus(cfg, state, log, packets)
		require.Equal(t, model.Active, house.Status, "turn %d should still be Active", turn)
	}

	log := events.NewLog()
	updateHouseStatus(cfg, state, log, packets)
	require.Equal(t, model.Autopilot, house.Status)
}

func TestUpdateHouseStatusResetsCounterOnNonEmptyPacket(t *testing.T) {
	g := ident.NewGenerator(22)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	state.Houses[hid] = house

	cfg := config.Defaults()
	log := events.NewLog()

	updateHouseStatus(cfg, state, log, map[ident.HouseId]model.CommandPacket{})
	updateHouseStatus(cfg, state, log, map[ident.HouseId]model.CommandPacket{})
	require.Equal(t, 2, house.TurnsWithoutOrders)

	nonEmpty := model.CommandPacket{FleetOrders: []model.Order{{}}}
	updateHouseStatus(cfg, state, log, map[ident.HouseId]model.CommandPacket{hid: nonEmpty})
	require.Equal(t, 0, house.TurnsWithoutOrders)
	require.Equal(t, model.Active, house.Status)
}

func TestUpdateHouseStatusEntersDefensiveCollapseAfterThreeNegativePrestigeTurns(t *testing.T) {
	g := ident.NewGenerator(23)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	house.Prestige = -1
	state.Houses[hid] = house

	cfg := config.Defaults()
	packets := map[ident.HouseId]model.CommandPacket{hid: {FleetOrders: []model.Order{{}}}}

	for turn := 1; turn <= 2; turn++ {
		log := events.NewLog()
		updateHouseStatus(cfg, state, log, packets)
		require.NotEqual(t, model.DefensiveCollapse, house.Status, "turn %d should not yet collapse", turn)
	}

	log := events.NewLog()
	updateHouseStatus(cfg, state, log, packets)
	require.Equal(t, model.DefensiveCollapse, house.Status)
}

func TestUpdateHouseStatusDefensiveCollapseIsTerminal(t *testing.T) {
	g := ident.NewGenerator(24)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	house.Status = model.DefensiveCollapse
	house.Prestige = 100
	state.Houses[hid] = house

	cfg := config.Defaults()
	log := events.NewLog()
	packets := map[ident.HouseId]model.CommandPacket{hid: {FleetOrders: []model.Order{{}}}}

	updateHouseStatus(cfg, state, log, packets)
	require.Equal(t, model.DefensiveCollapse, house.Status, "DefensiveCollapse must never revert")
}

func TestRecordTerminalOrdersCollectsOnlyTerminalKinds(t *testing.T) {
	g := ident.NewGenerator(25)
	state := model.NewGameState()
	log := events.NewLog()

	completedFleet := g.NextFleetId()
	failedFleet := g.NextFleetId()
	abortedFleet := g.NextFleetId()
	activeFleet := g.NextFleetId()

	log.Append(events.Event{Kind: events.OrderCompleted, Fleet: completedFleet})
	log.Append(events.Event{Kind: events.OrderFailed, Fleet: failedFleet})
	log.Append(events.Event{Kind: events.OrderAborted, Fleet: abortedFleet})
	log.Append(events.Event{Kind: events.FleetMerged, Fleet: activeFleet})

	recordTerminalOrders(state, log)

	require.ElementsMatch(t, []ident.FleetId{completedFleet, failedFleet, abortedFleet}, state.TerminalOrderFleets)
}
