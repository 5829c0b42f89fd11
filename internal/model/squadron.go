package model

import "houseturn/internal/ident"

// Squadron is owned by one fleet (§3). The flagship's class determines
// the squadron's command rating; escorts are zero or more additional
// hulls. If the flagship is removed (e.g. sent to repair) the strongest
// escort is promoted; a squadron with zero escorts left after removing
// its flagship is dissolved (§3).
type Squadron struct {
	ID       ident.SquadronId
	Type     SquadronType
	Flagship Ship
	Escorts  []Ship
}

// AllShips returns flagship + escorts, used by invariant checks and
// combat-strength computation.
func (s *Squadron) AllShips() []Ship {
	ships := make([]Ship, 0, 1+len(s.Escorts))
	ships = append(ships, s.Flagship)
	ships = append(ships, s.Escorts...)
	return ships
}

// RemoveFlagship promotes the strongest remaining escort (by DS, the
// spec names no tiebreak stat so defense strength is used as the
// promotion criterion since it is the stat a flagship most directly
// confers) to flagship and returns the removed ship. ok is false if
// there were no escorts to promote, in which case the squadron must be
// dissolved by the caller (§3).
func (s *Squadron) RemoveFlagship() (removed Ship, ok bool) {
	removed = s.Flagship
	if len(s.Escorts) == 0 {
		return removed, false
	}
	best := 0
	for i, e := range s.Escorts {
		if e.Stats.DS > s.Escorts[best].Stats.DS {
			best = i
		}
	}
	s.Flagship = s.Escorts[best]
	s.Escorts = append(s.Escorts[:best], s.Escorts[best+1:]...)
	return removed, true
}

// IsDissolved reports whether a squadron has no flagship left to field
// (the zero value Ship has an empty ID, which never occurs for a real
// ship, so this also catches a squadron whose flagship slot was cleared
// by the caller before dissolution bookkeeping ran).
func (s *Squadron) IsDissolved() bool {
	return s.Flagship.ID.IsNil()
}
