// Package store provides typed, panic-free accessors over a
// model.GameState's entity tables, in the shape of the teacher's
// database proxies (FleetProxy, PlanetProxy, ...) generalized from a
// SQL-backed lookup to an in-memory arena lookup (design note §9:
// "Implementers ... should use arena-style entity stores (HashMap<Id,
// Entity>) and treat ids as weak references: every dereference returns
// optional.").
//
// Every accessor returns (value, ok) rather than panicking on a missing
// id, so resolvers can follow the "entity gone, log and skip" discipline
// §9 requires across inter-phase deletions.
package store

import (
	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// Store wraps a GameState with typed accessors. It holds no state of
// its own beyond the pointer to the GameState it wraps; it exists to
// keep the repetitive "look it up, check ok" pattern out of every
// resolver.
type Store struct {
	State *model.GameState
}

// New wraps state.
func New(state *model.GameState) *Store {
	return &Store{State: state}
}

func (s *Store) House(id ident.HouseId) (*model.House, bool) {
	h, ok := s.State.Houses[id]
	return h, ok
}

func (s *Store) Colony(id ident.ColonyId) (*model.Colony, bool) {
	c, ok := s.State.Colonies[id]
	return c, ok
}

func (s *Store) Facility(id ident.FacilityId) (*model.Facility, bool) {
	f, ok := s.State.Facilities[id]
	return f, ok
}

func (s *Store) Fleet(id ident.FleetId) (*model.Fleet, bool) {
	f, ok := s.State.Fleets[id]
	return f, ok
}

func (s *Store) SpyScout(id ident.SpyScoutId) (*model.SpyScout, bool) {
	sc, ok := s.State.SpyScouts[id]
	return sc, ok
}

func (s *Store) System(id ident.SystemId) (*model.System, bool) {
	sys, ok := s.State.Systems[id]
	return sys, ok
}

// CreateFleet inserts a new fleet into the store.
func (s *Store) CreateFleet(f *model.Fleet) {
	s.State.Fleets[f.ID] = f
}

// CreateColony inserts a new colony.
func (s *Store) CreateColony(c *model.Colony) {
	s.State.Colonies[c.ID] = c
}

// CreateFacility inserts a new facility.
func (s *Store) CreateFacility(f *model.Facility, id ident.FacilityId) {
	s.State.Facilities[id] = f
}

// DeleteFleet removes a fleet and its pending order, per the empty-fleet
// and pending-order-consistency invariants (§3).
func (s *Store) DeleteFleet(id ident.FleetId) {
	s.State.DeleteFleet(id)
}

// HousesSorted returns every house id in a deterministic order (lex id
// order per §5: "entities by id lex order").
func (s *Store) HousesSorted() []ident.HouseId {
	ids := make([]ident.HouseId, 0, len(s.State.Houses))
	for id := range s.State.Houses {
		ids = append(ids, id)
	}
	sortIds(ids, func(a, b ident.HouseId) bool { return a.String() < b.String() })
	return ids
}

// ColoniesSorted returns every colony id in deterministic order.
func (s *Store) ColoniesSorted() []ident.ColonyId {
	ids := make([]ident.ColonyId, 0, len(s.State.Colonies))
	for id := range s.State.Colonies {
		ids = append(ids, id)
	}
	sortIds(ids, func(a, b ident.ColonyId) bool { return a.String() < b.String() })
	return ids
}

// FleetsSorted returns every fleet id in deterministic order.
func (s *Store) FleetsSorted() []ident.FleetId {
	ids := make([]ident.FleetId, 0, len(s.State.Fleets))
	for id := range s.State.Fleets {
		ids = append(ids, id)
	}
	sortIds(ids, func(a, b ident.FleetId) bool { return a.String() < b.String() })
	return ids
}

// sortIds is a tiny insertion sort: entity tables stay small enough per
// turn (tens to low thousands of fleets) that avoiding a generic
// sort.Slice closure allocation per call isn't worth the complexity;
// kept as a named helper purely to share the comparator-based signature
// across the three *Sorted methods above.
func sortIds[T any](ids []T, less func(a, b T) bool) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && less(ids[j], ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
