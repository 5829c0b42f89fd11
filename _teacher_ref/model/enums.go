package model

// PlanetClass describes the terrain tier of a system's single planet,
// used by RAW_INDEX (§4.4) to weight gross colonial output.
type PlanetClass string

const (
	Extreme  PlanetClass = "extreme"
	Desolate PlanetClass = "desolate"
	Hostile  PlanetClass = "hostile"
	Harsh    PlanetClass = "harsh"
	Benign   PlanetClass = "benign"
	Lush     PlanetClass = "lush"
	Eden     PlanetClass = "eden"
)

// ResourceRating describes the mineral abundance of a system's planet.
type ResourceRating string

const (
	VeryPoor ResourceRating = "very_poor"
	Poor     ResourceRating = "poor"
	Abundant ResourceRating = "abundant"
	Rich     ResourceRating = "rich"
	VeryRich ResourceRating = "very_rich"
)

// Relation is the diplomatic state one house holds toward another.
type Relation string

const (
	Neutral  Relation = "neutral"
	Ally     Relation = "ally"
	HostileR Relation = "hostile"
	Enemy    Relation = "enemy"
)

// HouseStatus is the lifecycle state of a house.
type HouseStatus string

const (
	Active             HouseStatus = "active"
	Autopilot          HouseStatus = "autopilot"
	DefensiveCollapse  HouseStatus = "defensive_collapse"
)

// TechField enumerates the per-house technology tracks. CST/EL/SL/WEP
// are named in the glossary; ELI/CIP/EBP are tracked separately on the
// house record because they are resource pools, not tech levels, but
// are included here so research allocation (§4.3 step 6) can address
// every field uniformly.
type TechField string

const (
	TechCST TechField = "cst" // Construction Tech
	TechEL  TechField = "el"  // Economic Level
	TechSL  TechField = "sl"  // Science Level
	TechWEP TechField = "wep" // Weapons Tech
	TechELI TechField = "eli" // Electronic Intelligence
)

// FacilityKind is the closed set of facility parents a colony may own.
type FacilityKind string

const (
	Spaceport FacilityKind = "spaceport"
	Shipyard  FacilityKind = "shipyard"
	Drydock   FacilityKind = "drydock"
	Starbase  FacilityKind = "starbase"
)

// ShipClass enumerates the ~19 hull variants named in §3. The list is
// intentionally flat (a tagged variant, not a class hierarchy per
// design note §9): dispatch on class is a switch, never a subtype.
type ShipClass string

const (
	Fighter          ShipClass = "fighter"
	Corvette         ShipClass = "corvette"
	Frigate          ShipClass = "frigate"
	Destroyer        ShipClass = "destroyer"
	LightCruiser     ShipClass = "light_cruiser"
	HeavyCruiser     ShipClass = "heavy_cruiser"
	Battlecruiser    ShipClass = "battlecruiser"
	Battleship       ShipClass = "battleship"
	Dreadnought      ShipClass = "dreadnought"
	SuperDreadnought ShipClass = "super_dreadnought"
	PlanetBreaker    ShipClass = "planet_breaker"
	Carrier          ShipClass = "carrier"
	LightCarrier     ShipClass = "light_carrier"
	Scout            ShipClass = "scout"
	ETAC             ShipClass = "etac"
	TroopTransport   ShipClass = "troop_transport"
	Raider           ShipClass = "raider"
	Minelayer        ShipClass = "minelayer"
	Monitor          ShipClass = "monitor"
)

// SquadronType groups ships within a squadron by role (§3).
type SquadronType string

const (
	CombatSquadron   SquadronType = "combat"
	AuxiliarySquadron SquadronType = "auxiliary"
	IntelSquadron    SquadronType = "intel"
	ExpansionSquadron SquadronType = "expansion"
	FighterSquadron  SquadronType = "fighter"
)

// FleetStatus is the mobility/maintenance tier of a fleet (§4.6, 17/18/19).
type FleetStatus string

const (
	FleetActive     FleetStatus = "active"
	FleetReserve    FleetStatus = "reserve"
	FleetMothballed FleetStatus = "mothballed"
)

// ConstructionType is the closed set of project kinds a facility can
// queue (§3).
type ConstructionType string

const (
	ConstructShip          ConstructionType = "ship"
	ConstructFacility      ConstructionType = "facility"
	ConstructGroundUnit    ConstructionType = "ground_unit"
	ConstructIndustrial    ConstructionType = "industrial"
	ConstructInfrastructure ConstructionType = "infrastructure"
)

// RepairTargetType is the closed set of things a repair project can fix.
type RepairTargetType string

const (
	RepairShip     RepairTargetType = "ship"
	RepairStarbase RepairTargetType = "starbase"
)

// RepairPriority orders the facility repair/construction queue per §4.9.
type RepairPriority int

const (
	PriorityConstruction RepairPriority = 0
	PriorityShipRepair   RepairPriority = 1
	PriorityStarbaseRepair RepairPriority = 2
)

// SpyMission is the kind of mission a deployed spy scout executes.
type SpyMission string

const (
	MissionSpyPlanet   SpyMission = "spy_planet"
	MissionHackStarbase SpyMission = "hack_starbase"
	MissionSpySystem   SpyMission = "spy_system"
)

// SpyScoutState is the lifecycle state of a deployed spy scout.
type SpyScoutState string

const (
	ScoutTraveling SpyScoutState = "traveling"
	ScoutOnMission SpyScoutState = "on_mission"
	ScoutReturning SpyScoutState = "returning"
	ScoutDetected  SpyScoutState = "detected"
)

// OrderType enumerates the 20 fleet order variants (§3, §4.6), numbered
// to match the spec's own numbering for cross-referencing.
type OrderType int

const (
	OrderHold OrderType = iota
	OrderMove
	OrderSeekHome
	OrderPatrol
	OrderGuardStarbase
	OrderGuardPlanet
	OrderBlockade
	OrderBombard
	OrderInvade
	OrderBlitz
	OrderSpyPlanet
	OrderHackStarbase
	OrderSpySystem
	OrderColonize
	OrderJoinFleet
	OrderRendezvous
	OrderSalvage
	OrderReserve
	OrderMothball
	OrderReactivate
)

// administrativeOrders execute synchronously in Command steps 3-4 and
// never pass through Initiate/Activate/Execute (§4.3, §4.6). JoinFleet
// is administrative; Rendezvous is not (it is a standing order that
// merges opportunistically once multiple fleets share it at a system).
var administrativeOrders = map[OrderType]bool{
	OrderJoinFleet: true,
}

// IsAdministrative reports whether ot executes immediately in Command
// rather than being stored for next Maintenance's Activate tier.
func (ot OrderType) IsAdministrative() bool {
	return administrativeOrders[ot]
}

// OrderState is the fleet-order lifecycle tier (§4.6).
type OrderState string

const (
	StateInitiated OrderState = "initiated"
	StateActive    OrderState = "active"
	StateCompleted OrderState = "completed"
	StateFailed    OrderState = "failed"
	StateAborted   OrderState = "aborted"
)
