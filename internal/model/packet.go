package model

import "houseturn/internal/ident"

// BuildCommand requests a new ConstructionProject at a chosen facility
// (§3, §4.3 step 7).
type BuildCommand struct {
	Colony   ident.ColonyId
	Facility ident.FacilityId
	Type     ConstructionType
	Item     string // ShipClass / FacilityKind / ground-unit kind as a string
	Quantity int
}

// RepairCommand requests repair of a crippled ship or starbase.
type RepairCommand struct {
	Colony        ident.ColonyId
	Fleet         ident.FleetId
	SquadronIndex int
	ShipIndex     int
	Starbase      ident.StarbaseId
}

// ScrapCommand requests destruction of an owned ship or facility without
// salvage credit (distinct from Salvage order, which credits 50%).
type ScrapCommand struct {
	Colony ident.ColonyId
	Target string
}

// ResearchAllocation is a house's requested PP split across Economic,
// Science and named technology fields (§3, §4.3 step 6).
type ResearchAllocation struct {
	Economic int
	Science  int
	Fields   map[TechField]int
}

// DiplomaticAction requests a change in standing toward another house.
type DiplomaticAction struct {
	Target   ident.HouseId
	Relation Relation
}

// PopulationTransfer moves PTUs between colonies (colonization seeding,
// migration).
type PopulationTransfer struct {
	From ident.ColonyId
	To   ident.ColonyId
	PTUs int
}

// TerraformCommand starts or continues a terraforming project.
type TerraformCommand struct {
	Colony     ident.ColonyId
	TargetClass PlanetClass
}

// ColonyToggle flips a colony-management flag (auto-repair, auto-load).
type ColonyToggle struct {
	Colony     ident.ColonyId
	AutoRepair *bool
	AutoLoad   *bool
	TaxOverride *int
}

// EspionageAction requests a covert-budget mission (§4.2 step 6c).
type EspionageAction struct {
	Target    ident.HouseId
	TargetSystem ident.SystemId
	Kind      string // tech theft, sabotage, assassination, cyber, psyops, ...
	EBPCost   int
}

// EBPInvestment requests conversion of PP into EBP or CIP.
type EBPInvestment struct {
	EBP int
	CIP int
}

// AdminCommand is the closed set of §4.3 steps 3-4's zero-turn
// commands, executed synchronously at submission time rather than
// passing through the stored-order pipeline. Each mutates state, runs
// its own validation, and emits events; a single command's failure
// never affects the rest of the packet (§4.3: "Failures are
// per-command").
type AdminCommand struct {
	Kind string // "merge_fleets", "detach_ships", "transfer_ships", "load_cargo", "unload_cargo",
	// "load_fighters", "unload_fighters", "transfer_ship_between_squadrons", "assign_squadron_to_fleet"

	SourceFleet ident.FleetId
	TargetFleet ident.FleetId

	SquadronID     ident.SquadronId
	SourceSquadron ident.SquadronId
	TargetSquadron ident.SquadronId
	ShipIDs        []ident.ShipId

	Marines      int
	ColonistPTUs int
}

// CommandPacket is a per-house, per-turn bundle of every command a
// player can submit (§3). An absent packet is treated as empty and
// counts toward the MIA/autopilot counter (§6).
type CommandPacket struct {
	House ident.HouseId

	FleetOrders   []Order
	AdminCommands []AdminCommand
	Builds        []BuildCommand
	Repairs       []RepairCommand
	Scraps        []ScrapCommand

	Research ResearchAllocation

	Diplomacy           []DiplomaticAction
	PopulationTransfers []PopulationTransfer
	Terraforms          []TerraformCommand
	ColonyToggles       []ColonyToggle
	Espionage           []EspionageAction
	Investment          EBPInvestment
}

// Empty reports whether this packet carries no commands at all, the
// condition that increments a house's TurnsWithoutOrders (§3, §6).
func (p *CommandPacket) Empty() bool {
	return len(p.FleetOrders) == 0 && len(p.AdminCommands) == 0 && len(p.Builds) == 0 && len(p.Repairs) == 0 &&
		len(p.Scraps) == 0 && len(p.Diplomacy) == 0 && len(p.PopulationTransfers) == 0 &&
		len(p.Terraforms) == 0 && len(p.ColonyToggles) == 0 && len(p.Espionage) == 0 &&
		p.Research.Economic == 0 && p.Research.Science == 0 && len(p.Research.Fields) == 0 &&
		p.Investment.EBP == 0 && p.Investment.CIP == 0
}
