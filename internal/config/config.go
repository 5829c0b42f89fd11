// Package config loads the engine's declarative tables once at process
// start into a read-only value (§5, §9: "Configuration ... loaded once
// into an immutable record ... It is never mutated by advance."). Every
// table named in §3/§4 (ship stats, facility docks, planet RAW_INDEX,
// prestige policy, ground-unit stats, espionage costs, population
// transfer rules) lives here.
//
// Loading follows the teacher's pkg/arguments convention: spf13/viper
// with an ENV_-prefixed environment overlay and file discovery across
// "." and "data/config", so the same table can be tuned per-environment
// without a code change.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"houseturn/internal/model"
)

// ShipStats is the per-class cost/time/stat-base entry (§3, §4.3 step 7:
// "Compute cost (ship class cost from config)").
type ShipStats struct {
	Cost         int
	BuildTurns   int
	BaseAS       int
	BaseDS       int
	BaseHP       int
	HangarSlots  int // carriers only
	MinCST       int // minimum Construction Tech level required to build the class (§4.3 step 7)
}

// FacilityConfig is the per-kind base dock count and build cost/time.
type FacilityConfig struct {
	BaseDocks  int
	Cost       int
	BuildTurns int
	Upkeep     int
}

// GroundUnitConfig is the per-kind cost/upkeep/population cost entry.
type GroundUnitConfig struct {
	Cost           int
	BuildTurns     int
	Upkeep         int
	PopulationCost int // souls deducted from the colony on recruitment (Army/Marine)
}

// PrestigePolicy drives the Income-phase tax-rate prestige adjustments
// (§4.4) and the Maintenance shortfall escalation (§4.5 step 4).
type PrestigePolicy struct {
	// HighTaxPenaltyThreshold is the rolling-average rate (percent) at
	// or above which a penalty applies ("51%: -1 ... -11").
	HighTaxPenaltyThreshold int
	HighTaxPenaltyPerPoint  int // scaling factor used to derive -1..-11 from the distance above threshold
	// LowTaxBonusThreshold is the current rate at or below which the
	// maximum per-colony bonus applies ("<=10%: +3 per colony").
	LowTaxBonusThreshold int
	LowTaxBonusMax        int
	// LowTaxBonusCeiling is the rate at or above which the bonus is zero
	// ("41+%: 0").
	LowTaxBonusCeiling int

	ShortfallPrestigeBase      int // base penalty applied on the first shortfall turn
	ShortfallPrestigeIncrement int // additional penalty per consecutive shortfall turn beyond the first
	ShortfallEliminationThreshold int // consecutive shortfall turns before DefensiveCollapse
}

// EspionageCosts is the EBP price list for covert-budget missions
// (§4.2 step 6c).
type EspionageCosts struct {
	TechTheft    int
	Sabotage     int
	Assassination int
	Cyber        int
	Psyops       int
}

// PopulationTransferRules governs colonization/migration granularity
// (§ glossary: "PTU ~50000 souls each").
type PopulationTransferRules struct {
	SoulsPerPTU   int64
	MinViableSouls int64 // minimum souls a colony must retain after a recruitment deduction
}

// Economy holds the Income-phase lookup tables (§4.4).
type Economy struct {
	// RawIndex[class][resources] is the 7x5 RAW_INDEX table, 0.60-1.40.
	RawIndex map[model.PlanetClass]map[model.ResourceRating]float64
	BlockadeFactor float64 // ~0.60, applied as a reduction (i.e. output *= (1 - factor) conceptually; see economy package for exact application)
}

// Config is the complete read-only table set, loaded once (§5, §9).
type Config struct {
	Ships       map[model.ShipClass]ShipStats
	Facilities  map[model.FacilityKind]FacilityConfig
	GroundUnits map[string]GroundUnitConfig
	Prestige    PrestigePolicy
	Espionage   EspionageCosts
	Population  PopulationTransferRules
	Economy     Economy

	SquadronCapGraceTurns int // §4.5 step 5
	FighterCapGraceTurns  int
	// FighterCapPerPUUnit is the "k" in the per-colony fighter cap
	// formula floor((1-infra_damage) * PU * k); the spec names the shape
	// without pinning k, so it is a config constant rather than a
	// hardcoded literal.
	FighterCapPerPUUnit float64
	SalvageRate         float64 // 0.50, §4.5 step 4 / §4.6 order 16
	ShipMaintenance       map[model.ShipClass]int
	CrippledMaintenanceMultiplier float64 // 1.5, §4.5 step 4
}

// Load reads configFile (without extension) via viper, overlaying
// ENV_-prefixed environment variables, falling back to Defaults() for
// any key left unset; an empty configFile yields Defaults() unchanged.
// A named config file that is missing or malformed is fatal per §7
// ("Fatal: process exits before any turn runs") — Load returns an error
// rather than panicking, and cmd/houseturn wraps it in an
// engine.ConfigError and controls the exit code (2, "invalid
// configuration", per §6).
func Load(configFile string) (Config, error) {
	cfg := Defaults()
	if configFile == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFile)
	v.AddConfigPath(".")
	v.AddConfigPath("data/config")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("houseturn: invalid configuration: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("houseturn: invalid configuration: %w", err)
	}

	return cfg, nil
}

// Defaults returns a complete, internally-consistent default table set
// suitable for tests and for a first run with no config file present.
func Defaults() Config {
	cfg := Config{
		Ships: map[model.ShipClass]ShipStats{
			model.Fighter:          {Cost: 20, BuildTurns: 1, BaseAS: 2, BaseDS: 1, BaseHP: 5, MinCST: 1},
			model.Corvette:         {Cost: 60, BuildTurns: 1, BaseAS: 4, BaseDS: 3, BaseHP: 15, MinCST: 1},
			model.Frigate:          {Cost: 120, BuildTurns: 1, BaseAS: 8, BaseDS: 6, BaseHP: 30, MinCST: 1},
			model.Destroyer:        {Cost: 220, BuildTurns: 2, BaseAS: 14, BaseDS: 10, BaseHP: 55, MinCST: 2},
			model.LightCruiser:     {Cost: 360, BuildTurns: 2, BaseAS: 22, BaseDS: 16, BaseHP: 90, MinCST: 2},
			model.HeavyCruiser:     {Cost: 520, BuildTurns: 3, BaseAS: 32, BaseDS: 24, BaseHP: 140, MinCST: 3},
			model.Battlecruiser:    {Cost: 760, BuildTurns: 3, BaseAS: 46, BaseDS: 34, BaseHP: 210, MinCST: 3},
			model.Battleship:       {Cost: 1100, BuildTurns: 4, BaseAS: 64, BaseDS: 48, BaseHP: 300, MinCST: 4},
			model.Dreadnought:      {Cost: 1600, BuildTurns: 5, BaseAS: 90, BaseDS: 68, BaseHP: 430, MinCST: 5},
			model.SuperDreadnought: {Cost: 2300, BuildTurns: 6, BaseAS: 126, BaseDS: 96, BaseHP: 620, MinCST: 6},
			model.PlanetBreaker:    {Cost: 6000, BuildTurns: 10, BaseAS: 400, BaseDS: 150, BaseHP: 1500, MinCST: 9},
			model.Carrier:          {Cost: 900, BuildTurns: 4, BaseAS: 10, BaseDS: 40, BaseHP: 320, HangarSlots: 12, MinCST: 4},
			model.LightCarrier:     {Cost: 500, BuildTurns: 3, BaseAS: 8, BaseDS: 26, BaseHP: 180, HangarSlots: 6, MinCST: 3},
			model.Scout:            {Cost: 80, BuildTurns: 1, BaseAS: 1, BaseDS: 4, BaseHP: 20, MinCST: 1},
			model.ETAC:             {Cost: 150, BuildTurns: 2, BaseAS: 0, BaseDS: 4, BaseHP: 40, MinCST: 1},
			model.TroopTransport:   {Cost: 140, BuildTurns: 2, BaseAS: 0, BaseDS: 4, BaseHP: 40, MinCST: 1},
			model.Raider:           {Cost: 260, BuildTurns: 2, BaseAS: 18, BaseDS: 8, BaseHP: 60, MinCST: 2},
			model.Minelayer:        {Cost: 200, BuildTurns: 2, BaseAS: 2, BaseDS: 8, BaseHP: 70, MinCST: 2},
			model.Monitor:          {Cost: 1400, BuildTurns: 5, BaseAS: 70, BaseDS: 90, BaseHP: 500, MinCST: 5},
		},
		Facilities: map[model.FacilityKind]FacilityConfig{
			model.Spaceport: {BaseDocks: 5, Cost: 400, BuildTurns: 4, Upkeep: 10},
			model.Shipyard:  {BaseDocks: 3, Cost: 900, BuildTurns: 6, Upkeep: 25},
			model.Drydock:   {BaseDocks: 2, Cost: 700, BuildTurns: 5, Upkeep: 20},
			model.Starbase:  {BaseDocks: 1, Cost: 2000, BuildTurns: 8, Upkeep: 60},
		},
		GroundUnits: map[string]GroundUnitConfig{
			"battery": {Cost: 100, BuildTurns: 2, Upkeep: 3},
			"army":    {Cost: 150, BuildTurns: 2, Upkeep: 4, PopulationCost: 50000},
			"marine":  {Cost: 120, BuildTurns: 2, Upkeep: 4, PopulationCost: 50000},
			"shield":  {Cost: 500, BuildTurns: 4, Upkeep: 10},
		},
		Prestige: PrestigePolicy{
			HighTaxPenaltyThreshold:       51,
			HighTaxPenaltyPerPoint:        1,
			LowTaxBonusThreshold:          10,
			LowTaxBonusMax:                3,
			LowTaxBonusCeiling:            41,
			ShortfallPrestigeBase:         2,
			ShortfallPrestigeIncrement:    1,
			ShortfallEliminationThreshold: 3,
		},
		Espionage: EspionageCosts{
			TechTheft: 150, Sabotage: 120, Assassination: 200, Cyber: 100, Psyops: 90,
		},
		Population: PopulationTransferRules{
			SoulsPerPTU:    50_000,
			MinViableSouls: 10_000,
		},
		Economy: Economy{
			RawIndex: defaultRawIndex(),
			BlockadeFactor: 0.60,
		},
		SquadronCapGraceTurns: 2,
		FighterCapGraceTurns:  2,
		FighterCapPerPUUnit:   0.25,
		SalvageRate:           0.50,
		CrippledMaintenanceMultiplier: 1.5,
	}
	cfg.ShipMaintenance = defaultShipMaintenance(cfg.Ships)
	return cfg
}

func defaultShipMaintenance(ships map[model.ShipClass]ShipStats) map[model.ShipClass]int {
	m := map[model.ShipClass]int{}
	for class, s := range ships {
		m[class] = s.Cost / 20
		if m[class] < 1 {
			m[class] = 1
		}
	}
	return m
}

// Defaults0Ships returns the Ships table of Defaults(). Default ship
// maintenance is derived from that same table inside Defaults, which
// does not call this function.
func Defaults0Ships() map[model.ShipClass]ShipStats {
	return Defaults().Ships
}

// defaultRawIndex fills the 7x5 PlanetClass x ResourceRating table
// (§4.4: "0.60-1.40"), increasing with both more hospitable class and
// richer resources.
func defaultRawIndex() map[model.PlanetClass]map[model.ResourceRating]float64 {
	classes := []model.PlanetClass{model.Extreme, model.Desolate, model.Hostile, model.Harsh, model.Benign, model.Lush, model.Eden}
	resources := []model.ResourceRating{model.VeryPoor, model.Poor, model.Abundant, model.Rich, model.VeryRich}

	table := map[model.PlanetClass]map[model.ResourceRating]float64{}
	for ci, class := range classes {
		table[class] = map[model.ResourceRating]float64{}
		for ri, res := range resources {
			// Linear interpolation across both axes from 0.60 to 1.40.
			classFrac := float64(ci) / float64(len(classes)-1)
			resFrac := float64(ri) / float64(len(resources)-1)
			value := 0.60 + 0.80*((classFrac+resFrac)/2.0)
			table[class][res] = value
		}
	}
	return table
}
