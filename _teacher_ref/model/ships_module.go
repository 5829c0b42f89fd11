package model

// ShipsModule :
// Fill a similar role to the `ResourcesModule` (see doc in
// this file for more info). The information contained in
// this element is related to the ships available in the game.
// Each ship can be built by a player on a particular planet
// and has special properties.
type ShipsModule struct {
	associationTable
}
