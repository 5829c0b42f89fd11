// Package checksum hashes a turn's output state for the determinism
// property (§8 property 1: "advance(state, packets, seed) is a pure
// function; repeated calls with identical arguments produce byte-
// identical state' and event sequences"), grounded on Vitadek-OwnWorld's
// blake3.Sum256 + hex.EncodeToString pattern.
package checksum

import (
	"encoding/hex"
	"encoding/json"

	"lukechampine.com/blake3"

	"houseturn/internal/events"
	"houseturn/internal/model"
)

// State hashes a GameState. encoding/json sorts map keys implementing
// encoding.TextMarshaler before marshaling, so the serialized bytes
// (and therefore the hash) do not depend on Go's randomized map
// iteration order.
func State(state *model.GameState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

// Events hashes a turn's event log in append order, which is already
// deterministic given deterministic iteration upstream (§5).
func Events(log *events.Log) (string, error) {
	data, err := json.Marshal(log.All())
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

// Turn hashes (state', events) together, the pairing the determinism
// property actually checks: two runs agree only if both match.
func Turn(state *model.GameState, log *events.Log) (string, error) {
	stateSum, err := State(state)
	if err != nil {
		return "", err
	}
	eventSum, err := Events(log)
	if err != nil {
		return "", err
	}
	return hashBytes([]byte(stateSum + eventSum)), nil
}

func hashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
