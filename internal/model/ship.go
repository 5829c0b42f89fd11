package model

import "houseturn/internal/ident"

// Stats is a ship's combat stat block (§3): Attack Strength, Defense
// Strength, Hit Points. Set once at commissioning time from the class's
// base stats in config — the owning house's tech levels are not applied
// — and frozen on the ship afterward, unlike EffectiveDocks (a
// facility-level multiplier), which is recomputed live.
type Stats struct {
	AS int
	DS int
	HP int
}

// Cargo is the class-dependent payload carried by spacelift/carrier
// hulls (§3): transports carry Marines, ETACs carry Colonist PTUs,
// carriers carry embarked Fighter ids.
type Cargo struct {
	Marines   int
	ColonistPTUs int
	Fighters  []ident.ShipId
}

// Ship is a single hull (§3).
type Ship struct {
	ID    ident.ShipId
	Class ShipClass

	Crippled bool
	Stats    Stats
	Cargo    Cargo
}

// IsSpacelift reports whether this ship rides in a fleet's spacelift
// list rather than as a squadron member (§3: "ETACs, Troop Transports —
// explicitly not squadron members").
func (c ShipClass) IsSpacelift() bool {
	return c == ETAC || c == TroopTransport
}

// IsScout reports whether this class is the Scout hull.
func (c ShipClass) IsScout() bool {
	return c == Scout
}

// CanCarryFighters reports whether a class has a hangar at all
// (Carrier, LightCarrier), the predicate used by fighter loading and
// colony automation (§4.3 step 2). It does not give hangar sizes.
func (c ShipClass) CanCarryFighters() bool {
	return c == Carrier || c == LightCarrier
}
