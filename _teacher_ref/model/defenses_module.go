package model

// DefensesModule :
// Fill a similar role to the `ResourcesModule` (see doc in
// this file for more info). The information contained in
// this element is related to the defenses available in the
// game. Each defense can be built by a player on a specific
// planet and has special properties.
type DefensesModule struct {
	associationTable
}
