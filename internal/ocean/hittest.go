package ocean

import "math"

// HitTest projects a normalized pointer position (both axes in
// [-1, 1]) through the fixed overhead camera onto the ocean plane and
// returns the nearest bottle whose bounding sphere the pick ray
// intersects. Sinking bottles no longer hit. Only interactive scenes
// hit-test; display scenes always miss.
func (s *Scene) HitTest(nx, ny float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.interactive {
		return "", false
	}

	// The camera looks straight down, so the pick ray meets the plane
	// at the pointer's scaled coordinates and sphere intersection
	// reduces to a planar distance check.
	px := nx * viewExtent
	pz := ny * viewExtent

	bestID := ""
	bestDist := math.Inf(1)
	for id, b := range s.bottles {
		if b.sinking {
			continue
		}
		dist := math.Hypot(px-b.Position.X, pz-b.Position.Z)
		if dist <= bottleRadius && dist < bestDist {
			bestID = id
			bestDist = dist
		}
	}
	return bestID, bestID != ""
}

// Click resolves a pointer position to a bottle and invokes the read
// callback. Reports whether anything was hit. The callback runs
// outside the scene lock: it typically marks the message read through
// the store, and the resulting notification loops back into
// RemoveBottle.
func (s *Scene) Click(nx, ny float64) bool {
	messageID, ok := s.HitTest(nx, ny)
	if !ok {
		return false
	}
	if s.onRead != nil {
		s.onRead(messageID)
	}
	return true
}
