// Package persist implements the persisted-state document layout (§6:
// "a single structured document"). GameState is serialized to BSON
// (mirroring nicoberrocal-galaxyCore's bson-tagged-struct style — no
// live MongoDB connection is made, only the codec) and the resulting
// bytes are LZ4-compressed before they reach the store, grounded on
// Vitadek-OwnWorld's compressLZ4/decompressLZ4 helpers.
package persist

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"houseturn/internal/model"
)

// Encode serializes state to its on-disk representation: BSON, then
// LZ4-compressed.
func Encode(state *model.GameState) ([]byte, error) {
	raw, err := bson.Marshal(state)
	if err != nil {
		return nil, err
	}
	return compress(raw), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*model.GameState, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	state := model.NewGameState()
	if err := bson.Unmarshal(raw, state); err != nil {
		return nil, err
	}
	return state, nil
}

func compress(src []byte) []byte {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		zw.Close()
		return nil
	}
	if err := zw.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func decompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
