package ident

import (
	"encoding/json"
	"testing"
)

func TestGeneratorDeterministic(t *testing.T) {
	g1 := NewGenerator(42)
	g2 := NewGenerator(42)

	for i := 0; i < 5; i++ {
		a := g1.NextFleetId()
		b := g2.NextFleetId()
		if a != b {
			t.Fatalf("generator outputs diverged at step %d: %v != %v", i, a, b)
		}
	}
}

func TestGeneratorDiffersAcrossSeeds(t *testing.T) {
	g1 := NewGenerator(1)
	g2 := NewGenerator(2)

	if g1.NextHouseId() == g2.NextHouseId() {
		t.Fatal("different seeds produced the same id")
	}
}

func TestIdTextRoundTrip(t *testing.T) {
	g := NewGenerator(7)
	want := g.NextColonyId()

	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var got ColonyId
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	}
}

func TestIdAsMapKeyJSON(t *testing.T) {
	g := NewGenerator(9)
	m := map[HouseId]int{
		g.NextHouseId(): 1,
		g.NextHouseId(): 2,
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal map with id keys: %v", err)
	}

	var back map[HouseId]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal map with id keys: %v", err)
	}
	if len(back) != len(m) {
		t.Fatalf("round trip lost entries: got %d, want %d", len(back), len(m))
	}
}

func TestIsNil(t *testing.T) {
	var id FleetId
	if !id.IsNil() {
		t.Fatal("zero value FleetId should be nil")
	}

	g := NewGenerator(3)
	if g.NextFleetId().IsNil() {
		t.Fatal("generated FleetId should not be nil")
	}
}
