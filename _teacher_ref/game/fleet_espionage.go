package game

import "fmt"

// spy :
// Used to perform a spying operation on the planet
// by the fleet. This can lead to a fight in case
// the fleet is spotted.
//
// The `p` represents the planet to spy.
//
// Return any error along with the name of the
// script to execute to finalize the execution of
// the fleet.
func (f *Fleet) spy(p *Planet) (string, error) {
	// TODO: Implement this.
	return "fleet_return_to_base", fmt.Errorf("Not implemented")
}
