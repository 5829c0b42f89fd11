// Package events defines the engine's ordered output log (§6). Event
// variants are a closed tagged union (design note §9: "deep
// inheritance -> tagged variants"); dispatch on Kind is a switch, never
// a type hierarchy.
package events

import "houseturn/internal/ident"

// Kind is the closed set of event variants named in §6.
type Kind string

const (
	ShipCommissioned    Kind = "ship_commissioned"
	BuildingCompleted   Kind = "building_completed"
	UnitRecruited       Kind = "unit_recruited"
	OrderCompleted      Kind = "order_completed"
	OrderFailed         Kind = "order_failed"
	OrderAborted        Kind = "order_aborted"
	FleetMerged         Kind = "fleet_merged"
	FleetDestroyed      Kind = "fleet_destroyed"
	ColonyColonized     Kind = "colony_colonized"
	ColonyBlockaded     Kind = "colony_blockaded"
	CombatResolved      Kind = "combat_resolved"
	InvasionResolved    Kind = "invasion_resolved"
	EspionageResolved   Kind = "espionage_resolved"
	SpyScoutDetected    Kind = "spy_scout_detected"
	MaintenanceShortfall Kind = "maintenance_shortfall"
	HouseEliminated     Kind = "house_eliminated"
	PrestigeAdjusted    Kind = "prestige_adjusted"
	ShipProductionLost  Kind = "ship_production_lost"
	EngineWarning       Kind = "engine_warning"
)

// Event is one entry in the ordered log. Fields beyond Kind/Turn/Phase
// are a loosely-typed payload map: the event log is a boundary artifact
// consumed by out-of-scope collaborators (report generator, AI, §6),
// so it favors a stable, serializable shape over a Go-side exhaustive
// switch type for every one of 19 variants.
type Event struct {
	Kind  Kind
	Turn  int
	Phase string

	House   ident.HouseId
	Fleet   ident.FleetId
	Colony  ident.ColonyId
	System  ident.SystemId
	Other   ident.HouseId // second house involved, e.g. attacker/defender

	Message string
	Data    map[string]any
}

// Log is the append-only ordered event sequence for one turn (§4.1:
// "Each phase consumes and appends to events").
type Log struct {
	events []Event
}

// NewLog builds an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an event, preserving submission order — the ordering
// guarantee that makes the event sequence deterministic given a
// deterministic iteration order upstream (§5, §8 property 1).
func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

// Warning is a convenience for the common EngineWarning case (§7:
// "Any inconsistency detected inside a phase ... is recorded as a
// GameEvent::EngineWarning and the offending order is dropped").
func (l *Log) Warning(turn int, phase, message string) {
	l.Append(Event{Kind: EngineWarning, Turn: turn, Phase: phase, Message: message})
}

// All returns every event recorded so far, in submission order.
func (l *Log) All() []Event {
	return l.events
}

// OfKind filters the log to one variant, used by Command step 0's
// cleanup scan ("examine last turn's events: if an OrderCompleted,
// OrderFailed, or OrderAborted event names it, remove it").
func (l *Log) OfKind(k Kind) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
