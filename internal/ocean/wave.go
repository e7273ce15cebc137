package ocean

import "math"

// Wave surface parameters. Two sine terms with different frequencies
// and speeds keep the surface from reading as a single marching wave.
const (
	waveAmplitudeA = 0.6
	waveFrequencyA = 0.08
	waveSpeedA     = 1.1

	waveAmplitudeB = 0.3
	waveFrequencyB = 0.12
	waveSpeedB     = 0.7
)

// waveMesh is the ocean surface: a square grid of vertices whose
// heights are recomputed every frame from unit time in seconds.
type waveMesh struct {
	size    int
	spacing float64
	heights [][]float64
}

// newWaveMesh builds a size x size vertex grid spanning [-extent,
// extent] on both plane axes.
func newWaveMesh(size int, extent float64) *waveMesh {
	heights := make([][]float64, size)
	for i := range heights {
		heights[i] = make([]float64, size)
	}
	return &waveMesh{
		size:    size,
		spacing: 2 * extent / float64(size-1),
		heights: heights,
	}
}

func (w *waveMesh) vertexPosition(i, j int) (x, z float64) {
	half := w.spacing * float64(w.size-1) / 2
	return float64(i)*w.spacing - half, float64(j)*w.spacing - half
}

// advance recomputes every vertex height at unit time t.
func (w *waveMesh) advance(t float64) {
	for i := 0; i < w.size; i++ {
		for j := 0; j < w.size; j++ {
			x, z := w.vertexPosition(i, j)
			w.heights[i][j] = waveAmplitudeA*math.Sin(x*waveFrequencyA+t*waveSpeedA) +
				waveAmplitudeB*math.Sin(z*waveFrequencyB+t*waveSpeedB)
		}
	}
}

// snapshot returns an independent copy of the height grid.
func (w *waveMesh) snapshot() [][]float64 {
	out := make([][]float64, w.size)
	for i := range w.heights {
		out[i] = make([]float64, w.size)
		copy(out[i], w.heights[i])
	}
	return out
}
