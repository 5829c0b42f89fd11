package model

import "houseturn/internal/ident"

// System is a node of the star map. At most one Planet exists per
// System; a System with no Planet is a transit hub only (no colony can
// ever be founded there).
//
// The `Lanes` adjacency is the primary query (§3); shortest-path (lane
// count) is the secondary query and lives in internal/starmap, which
// treats System/Lane purely as graph data and knows nothing about
// colonies, fleets, or any other aggregate.
type System struct {
	ID     ident.SystemId
	Name   string
	Planet *Planet
	Lanes  []ident.SystemId
}

// Planet is the single planet, if any, occupying a System.
type Planet struct {
	Class     PlanetClass
	Resources ResourceRating
}

// HasPlanet reports whether this system can host a colony.
func (s *System) HasPlanet() bool {
	return s.Planet != nil
}
