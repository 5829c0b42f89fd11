package model

import (
	"testing"

	"houseturn/internal/ident"
)

func TestTaxHistoryAverage(t *testing.T) {
	var h TaxHistory
	if h.Average() != 0 {
		t.Fatal("empty history should average to 0")
	}

	h.Push(10)
	h.Push(20)
	if got := h.Average(); got != 15 {
		t.Fatalf("average of [10,20] = %v, want 15", got)
	}
}

func TestTaxHistoryWindowCapsAtSix(t *testing.T) {
	var h TaxHistory
	for i := 1; i <= 8; i++ {
		h.Push(i * 10)
	}
	if h.Count != 6 {
		t.Fatalf("count = %d, want 6", h.Count)
	}
	// Most recent push (80) should be at index 0; the oldest two (10, 20)
	// should have slid out of the window.
	if h.Rates[0] != 80 {
		t.Fatalf("most recent rate = %d, want 80", h.Rates[0])
	}
}

func TestRelationWithDefaultsNeutral(t *testing.T) {
	h := NewHouse(ident.HouseId{}, "Atreides")
	other := ident.HouseId{}
	if h.RelationWith(other) != Neutral {
		t.Fatal("unrecorded relation should default to Neutral")
	}
}

func TestIsHostileTo(t *testing.T) {
	g := ident.NewGenerator(11)
	h := NewHouse(g.NextHouseId(), "Harkonnen")
	other := g.NextHouseId()

	if h.IsHostileTo(other) {
		t.Fatal("Neutral relation should not be hostile")
	}

	h.Relations[other] = HostileR
	if !h.IsHostileTo(other) {
		t.Fatal("HostileR relation should be hostile")
	}

	h.Relations[other] = Enemy
	if !h.IsHostileTo(other) {
		t.Fatal("Enemy relation should be hostile")
	}
}
