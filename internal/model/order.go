package model

import "houseturn/internal/ident"

// Order is a fleet order submitted in a CommandPacket (§3). Once stored
// in GameState.FleetOrders it carries a State tier (§4.6) that the
// engine advances through Initiate -> Activate -> Execute ->
// Completed/Failed/Aborted.
type Order struct {
	Fleet ident.FleetId
	Type  OrderType

	TargetSystem ident.SystemId // optional; zero value means unset
	TargetFleet  ident.FleetId  // optional; used by JoinFleet/Rendezvous host selection, Guard, etc.

	Priority int
	ROE      *int // optional, 0-10

	State OrderState

	// StandingAutoColonize marks a Colonize order that should rebind to
	// the next candidate system if this turn's attempt loses the
	// simultaneous-resolution draw (§4.2 step 5, Scenario C).
	StandingAutoColonize bool

	// MovementProgress counts jumps already consumed toward TargetSystem
	// this activation, for orders that move (Move, SeekHome, Rendezvous,
	// Salvage).
	MovementProgress int
}

// IsStoredOrder reports whether this order type is stored for next
// Maintenance's Activate tier rather than executed immediately in
// Command (§4.3 steps 3-5, §4.6).
func (o *Order) IsStoredOrder() bool {
	return !o.Type.IsAdministrative()
}
