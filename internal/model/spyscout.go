package model

import "houseturn/internal/ident"

// SpyScout is an independent first-class entity, not a squadron member
// (§3). It is "consumed" from a fleet's squadron when deployed by a
// SpyPlanet/HackStarbase/SpySystem order (§4.2 step 6b).
type SpyScout struct {
	ID    ident.SpyScoutId
	Owner ident.HouseId

	System  ident.SystemId
	ELI     int
	Mission SpyMission
	State   SpyScoutState

	// JumpPath is the planned route to the mission target; Progress
	// indexes into it. Scouts advance 1-2 jumps per turn (§4.2 step 7).
	JumpPath []ident.SystemId
	Progress int

	// MergedScoutCount grants the mesh-network detection bonus used by
	// the pre-combat detection roll (§4.2 step 1: "1d20 >= 15 -
	// scout_count + ...").
	MergedScoutCount int
}

// AtTarget reports whether the scout has reached the final system in
// its planned path.
func (s *SpyScout) AtTarget() bool {
	return s.Progress >= len(s.JumpPath)-1
}

// Advance moves the scout forward by up to maxJumps hops along its
// path, returning the number of hops actually taken.
func (s *SpyScout) Advance(maxJumps int) int {
	remaining := len(s.JumpPath) - 1 - s.Progress
	if remaining <= 0 {
		return 0
	}
	hop := maxJumps
	if hop > remaining {
		hop = remaining
	}
	s.Progress += hop
	return hop
}

// CurrentSystem returns the system the scout currently occupies along
// its planned path.
func (s *SpyScout) CurrentSystem() ident.SystemId {
	if len(s.JumpPath) == 0 {
		return s.System
	}
	return s.JumpPath[s.Progress]
}
