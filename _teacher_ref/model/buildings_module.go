package model

// BuildingsModule :
// Fill a similar role to the `ResourcesModule` (see doc in
// this file for more info). The information contained in
// this element is related to the buildings available in
// the game. Each building can be built on planets and has
// special properties and effects.
type BuildingsModule struct {
	associationTable
}
