package types

import "math"

// goldenAngleDegrees is the angular step between consecutive bottles.
// Successive multiples never line up, so the spiral stays spread out
// without any collision detection.
const goldenAngleDegrees = 137.5

const radiusScale = 5.0

// PlacementFor returns the ocean-plane position of the i-th message in
// a session (0-indexed): angle i*137.5 degrees, radius sqrt(i+1)*5.
// The function is deterministic, so a placement can always be
// recomputed from the insertion index alone.
func PlacementFor(index int) Placement {
	angle := float64(index) * goldenAngleDegrees * math.Pi / 180
	radius := math.Sqrt(float64(index+1)) * radiusScale
	return Placement{
		X: radius * math.Cos(angle),
		Y: 0,
		Z: radius * math.Sin(angle),
	}
}
