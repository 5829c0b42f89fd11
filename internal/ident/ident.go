// Package ident defines the opaque identifier types used throughout the
// engine. Every entity is referenced elsewhere exclusively by id: there
// are no pointer back-references between aggregates, so a squadron
// refers to its fleet by FleetId and not by *Fleet.
//
// Each id wraps a github.com/google/uuid.UUID but is a distinct Go type
// so that a FleetId can never be passed where a ColonyId is expected
// without an explicit conversion.
package ident

import (
	"fmt"

	"github.com/google/uuid"
)

// HouseId identifies a player/faction.
type HouseId uuid.UUID

// SystemId identifies a star-map system.
type SystemId uuid.UUID

// FleetId identifies a fleet.
type FleetId uuid.UUID

// SquadronId identifies a squadron within a fleet.
type SquadronId uuid.UUID

// ColonyId identifies a colony. Exactly one colony exists per system.
type ColonyId uuid.UUID

// ShipId identifies an individual ship.
type ShipId uuid.UUID

// FacilityId identifies a Spaceport, Shipyard, Drydock or Starbase.
type FacilityId uuid.UUID

// GroundUnitId identifies a ground battery, army, marine unit or shield.
type GroundUnitId uuid.UUID

// StarbaseId identifies a starbase facility specifically (starbases are
// also Facilities but are referenced directly from combat and
// surveillance code, hence the dedicated id type).
type StarbaseId uuid.UUID

// SpyScoutId identifies a deployed spy scout, an entity independent of
// any fleet or squadron.
type SpyScoutId uuid.UUID

// Nil is the zero value shared by every id type; it never identifies a
// real entity and is used as the "no target" sentinel.
var Nil = uuid.Nil

func (id HouseId) String() string      { return uuid.UUID(id).String() }
func (id SystemId) String() string     { return uuid.UUID(id).String() }
func (id FleetId) String() string      { return uuid.UUID(id).String() }
func (id SquadronId) String() string   { return uuid.UUID(id).String() }
func (id ColonyId) String() string     { return uuid.UUID(id).String() }
func (id ShipId) String() string       { return uuid.UUID(id).String() }
func (id FacilityId) String() string   { return uuid.UUID(id).String() }
func (id GroundUnitId) String() string { return uuid.UUID(id).String() }
func (id StarbaseId) String() string   { return uuid.UUID(id).String() }
func (id SpyScoutId) String() string   { return uuid.UUID(id).String() }

// MarshalText/UnmarshalText let every id type serve as a map key for
// encoders that require encoding.TextMarshaler on map keys (the BSON
// persisted-state document, §6, keys its entity maps by id).
func (id HouseId) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id SystemId) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id FleetId) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id SquadronId) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ColonyId) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ShipId) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id FacilityId) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id GroundUnitId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id StarbaseId) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id SpyScoutId) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *HouseId) UnmarshalText(b []byte) error      { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *SystemId) UnmarshalText(b []byte) error     { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *FleetId) UnmarshalText(b []byte) error      { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *SquadronId) UnmarshalText(b []byte) error   { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *ColonyId) UnmarshalText(b []byte) error     { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *ShipId) UnmarshalText(b []byte) error       { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *FacilityId) UnmarshalText(b []byte) error   { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *GroundUnitId) UnmarshalText(b []byte) error { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *StarbaseId) UnmarshalText(b []byte) error   { return unmarshalInto((*uuid.UUID)(id), b) }
func (id *SpyScoutId) UnmarshalText(b []byte) error   { return unmarshalInto((*uuid.UUID)(id), b) }

func unmarshalInto(dst *uuid.UUID, b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

func (id HouseId) IsNil() bool      { return id == HouseId(Nil) }
func (id SystemId) IsNil() bool     { return id == SystemId(Nil) }
func (id FleetId) IsNil() bool      { return id == FleetId(Nil) }
func (id SquadronId) IsNil() bool   { return id == SquadronId(Nil) }
func (id ColonyId) IsNil() bool     { return id == ColonyId(Nil) }
func (id ShipId) IsNil() bool       { return id == ShipId(Nil) }
func (id FacilityId) IsNil() bool   { return id == FacilityId(Nil) }
func (id GroundUnitId) IsNil() bool { return id == GroundUnitId(Nil) }
func (id StarbaseId) IsNil() bool   { return id == StarbaseId(Nil) }
func (id SpyScoutId) IsNil() bool   { return id == SpyScoutId(Nil) }

// Generator produces new ids deterministically from a per-turn counter
// seeded by the turn's RNG stream, so that two runs of advance() with
// the same rng_seed allocate the same ids in the same order.
//
// The generator is not safe for concurrent use; the engine is
// single-threaded within a turn (see design notes, §5).
type Generator struct {
	seed    [16]byte
	counter uint64
}

// NewGenerator builds a Generator from the turn's 64-bit rng seed. The
// seed is expanded into a 16-byte namespace so that ids generated by
// different turns (different rng_seed) never collide.
func NewGenerator(rngSeed uint64) *Generator {
	var seed [16]byte
	for i := 0; i < 8; i++ {
		seed[i] = byte(rngSeed >> (8 * i))
	}
	return &Generator{seed: seed}
}

// Next returns the next deterministic id in sequence, formatted as a
// version-5 (namespace+name) UUID so the same (seed, counter) pair
// always yields the same bytes.
func (g *Generator) Next() uuid.UUID {
	name := fmt.Sprintf("%x-%d", g.seed, g.counter)
	g.counter++
	return uuid.NewSHA1(uuid.UUID(g.seed), []byte(name))
}

func (g *Generator) NextHouseId() HouseId           { return HouseId(g.Next()) }
func (g *Generator) NextSystemId() SystemId         { return SystemId(g.Next()) }
func (g *Generator) NextFleetId() FleetId           { return FleetId(g.Next()) }
func (g *Generator) NextSquadronId() SquadronId     { return SquadronId(g.Next()) }
func (g *Generator) NextColonyId() ColonyId         { return ColonyId(g.Next()) }
func (g *Generator) NextShipId() ShipId             { return ShipId(g.Next()) }
func (g *Generator) NextFacilityId() FacilityId     { return FacilityId(g.Next()) }
func (g *Generator) NextGroundUnitId() GroundUnitId { return GroundUnitId(g.Next()) }
func (g *Generator) NextStarbaseId() StarbaseId     { return StarbaseId(g.Next()) }
func (g *Generator) NextSpyScoutId() SpyScoutId     { return SpyScoutId(g.Next()) }
