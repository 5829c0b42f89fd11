package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"houseturn/internal/config"
	"houseturn/internal/events"
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

func newTestHouse(g *ident.Generator) (*model.House, ident.HouseId) {
	hid := g.NextHouseId()
	return model.NewHouse(hid, "test house"), hid
}

func TestSquadronCapGrantsGracePeriodBeforeDisbanding(t *testing.T) {
	g := ident.NewGenerator(1)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	state.Houses[hid] = house
	state.Turn = 10

	// No colonies -> cap floors at 8. Build a single fleet with 9
	// squadrons, one over cap.
	fleet := &model.Fleet{ID: g.NextFleetId(), Owner: hid}
	for i := 0; i < 9; i++ {
		fleet.Squadrons = append(fleet.Squadrons, &model.Squadron{
			ID:       g.NextSquadronId(),
			Type:     model.CombatSquadron,
			Flagship: model.Ship{ID: g.NextShipId(), Class: model.Fighter},
		})
	}
	state.Fleets[fleet.ID] = fleet

	cfg := config.Defaults()
	log := events.NewLog()

	enforceCapacity(cfg, state, log)
	require.Equal(t, 9, len(fleet.Squadrons), "grace period should not disband on first over-cap turn")
	require.NotZero(t, house.SquadronCapExpiryTurn)

	state.Turn = house.SquadronCapExpiryTurn
	enforceCapacity(cfg, state, log)
	require.Equal(t, 8, len(fleet.Squadrons), "expired grace period should disband exactly one squadron")

	disbandEvents := log.OfKind(events.ShipProductionLost)
	require.Len(t, disbandEvents, 1)
}

func TestSquadronCapResetsWhenBackUnderCap(t *testing.T) {
	g := ident.NewGenerator(2)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	state.Houses[hid] = house
	state.Turn = 1

	fleet := &model.Fleet{ID: g.NextFleetId(), Owner: hid}
	for i := 0; i < 9; i++ {
		fleet.Squadrons = append(fleet.Squadrons, &model.Squadron{ID: g.NextSquadronId(), Type: model.CombatSquadron})
	}
	state.Fleets[fleet.ID] = fleet

	cfg := config.Defaults()
	log := events.NewLog()
	enforceCapacity(cfg, state, log)
	require.NotZero(t, house.SquadronCapExpiryTurn)

	fleet.Squadrons = fleet.Squadrons[:8]
	enforceCapacity(cfg, state, log)
	require.Zero(t, house.SquadronCapExpiryTurn, "falling back under cap should clear the timer")
}

func TestSquadronCapDisbandsOnePerTurnWithoutRearmingGrace(t *testing.T) {
	g := ident.NewGenerator(4)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	state.Houses[hid] = house
	state.Turn = 1

	// Eleven squadrons against a floor cap of 8: three over, not one.
	fleet := &model.Fleet{ID: g.NextFleetId(), Owner: hid}
	for i := 0; i < 11; i++ {
		fleet.Squadrons = append(fleet.Squadrons, &model.Squadron{ID: g.NextSquadronId(), Type: model.CombatSquadron})
	}
	state.Fleets[fleet.ID] = fleet

	cfg := config.Defaults()
	log := events.NewLog()

	enforceCapacity(cfg, state, log)
	require.Len(t, fleet.Squadrons, 11, "grace period should not disband on first over-cap turn")
	expiry := house.SquadronCapExpiryTurn
	require.NotZero(t, expiry)

	state.Turn = expiry
	enforceCapacity(cfg, state, log)
	require.Len(t, fleet.Squadrons, 10, "first expired-grace turn disbands exactly one")
	require.NotZero(t, house.SquadronCapExpiryTurn, "still over cap: the timer must not reset to zero")

	state.Turn++
	enforceCapacity(cfg, state, log)
	require.Len(t, fleet.Squadrons, 9, "still over cap: a new grace period must not be re-armed before disbanding again")

	state.Turn++
	enforceCapacity(cfg, state, log)
	require.Len(t, fleet.Squadrons, 8, "back at cap: disbanding stops")
	require.Zero(t, house.SquadronCapExpiryTurn, "back at cap: the timer clears")
}

func TestFighterCapFormula(t *testing.T) {
	cfg := config.Defaults()
	colony := &model.Colony{PU: 1000, InfrastructureDamage: 0.2}

	got := fighterCap(cfg, colony)
	want := int(0.8 * 1000 * cfg.FighterCapPerPUUnit)
	require.Equal(t, want, got)
}

func TestFighterCapGracePeriodPerColony(t *testing.T) {
	g := ident.NewGenerator(3)
	state := model.NewGameState()
	house, hid := newTestHouse(g)
	state.Houses[hid] = house
	state.Turn = 5

	colony := &model.Colony{ID: g.NextColonyId(), Owner: hid, PU: 0, InfrastructureDamage: 0}
	for i := 0; i < 3; i++ {
		colony.FighterSquadrons = append(colony.FighterSquadrons, model.Ship{ID: g.NextShipId(), Class: model.Fighter})
	}
	state.Colonies[colony.ID] = colony

	cfg := config.Defaults()
	log := events.NewLog()

	enforceCapacity(cfg, state, log)
	require.Len(t, colony.FighterSquadrons, 3, "grace period should not disband immediately")
	expiry, tracked := house.FighterCapExpiryPerColony[colony.ID]
	require.True(t, tracked)

	state.Turn = expiry
	enforceCapacity(cfg, state, log)
	require.Len(t, colony.FighterSquadrons, 2, "expired grace period should remove exactly one fighter")
}
