package engine

import (
	"houseturn/internal/config"
	"houseturn/internal/economy"
	"houseturn/internal/events"
	"houseturn/internal/model"
)

// runIncome is a thin wrapper around economy.RunIncomePhase (§4.4): the
// phase has no internal sub-steps of its own to sequence, unlike
// Conflict, Command, and Maintenance.
func runIncome(cfg config.Config, state *model.GameState, log *events.Log) {
	economy.RunIncomePhase(cfg, state, log)
}
