package model

// TechnologiesModule :
// Fill a similar role to the `ResourcesModule` (see doc in
// this file for more info). The information contained in
// this element is related to the technologies available in
// the game. Each technology can be researched by a player
// on a particular planet and has special properties.
type TechnologiesModule struct {
	associationTable
}
