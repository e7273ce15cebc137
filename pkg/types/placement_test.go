package types

import (
	"math"
	"testing"
)

func TestPlacementForIndexZero(t *testing.T) {
	p := PlacementFor(0)

	// Angle 0, radius sqrt(1)*5 puts the first bottle at (5, 0, 0).
	if math.Abs(p.X-5) > 1e-9 {
		t.Errorf("X = %v, want 5", p.X)
	}
	if p.Y != 0 {
		t.Errorf("Y = %v, want 0", p.Y)
	}
	if math.Abs(p.Z) > 1e-9 {
		t.Errorf("Z = %v, want 0", p.Z)
	}
}

func TestPlacementForPairwiseDistinct(t *testing.T) {
	placements := []Placement{PlacementFor(0), PlacementFor(1), PlacementFor(2)}

	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			a, b := placements[i], placements[j]
			if math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Z-b.Z) < 1e-9 {
				t.Errorf("placements %d and %d coincide at (%v, %v)", i, j, a.X, a.Z)
			}
		}
	}
}

func TestPlacementForRadiusGrowth(t *testing.T) {
	for i := 0; i < 50; i++ {
		p := PlacementFor(i)
		radius := math.Hypot(p.X, p.Z)
		want := math.Sqrt(float64(i+1)) * 5
		if math.Abs(radius-want) > 1e-9 {
			t.Errorf("index %d: radius = %v, want %v", i, radius, want)
		}
	}
}

func TestPlacementForDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if PlacementFor(i) != PlacementFor(i) {
			t.Errorf("placement for index %d is not deterministic", i)
		}
	}
}
