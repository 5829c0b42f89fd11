package engine

import "fmt"

// Error taxonomy (§7): domain-level classification of what went wrong
// inside one turn, not Go's own error machinery. Advance returns no
// error: whatever arises during a turn is recorded as an EngineWarning
// event and the offending command is dropped (§7: "the engine never
// panics; it emits warnings"). ConfigError arises only before a turn
// runs.
var (
	// ErrValidation marks a malformed command: unknown id, negative
	// quantity, missing prerequisite.
	ErrValidation = fmt.Errorf("validation error")
	// ErrInsufficientResource marks treasury below cost, capacity
	// exceeded, or population too low.
	ErrInsufficientResource = fmt.Errorf("insufficient resource")
	// ErrInvariantViolation marks an internal inconsistency the engine
	// repaired best-effort (e.g. an empty fleet that should have been
	// pruned already).
	ErrInvariantViolation = fmt.Errorf("invariant violation")
	// ErrConfig marks a missing or invalid configuration table. Unlike
	// the other three, this is fatal: it can only occur at process
	// startup, before any turn runs (§7).
	ErrConfig = fmt.Errorf("config error")
)

// ConfigError wraps ErrConfig with the offending table name.
// cmd/houseturn builds it from the error internal/config returns at
// load time; it is never seen inside Advance.
type ConfigError struct {
	Table string
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error loading %s: %v", e.Table, e.Cause)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }
