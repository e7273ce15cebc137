// Package ocean maintains the 3D bottle pool behind the visualization:
// membership mirrors the displayed session's messages, an animation
// loop bobs and sways every pooled bottle, and hit-testing resolves
// click-to-read in interactive scenes.
//
// The pool has exactly two mutation entry points. Reconcile adds, and
// only adds: it tolerates being called repeatedly with a growing list,
// idempotent by message ID. RemoveBottle is a one-shot animated
// removal tied to a read interaction. Nothing else touches membership.
package ocean

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// Animation tuning.
const (
	bobAmplitude  = 0.35
	bobSpeed      = 1.2
	swayAmplitude = 0.15
	swaySpeed     = 0.9
	phaseStep     = 0.7

	sinkDepth = 4.0

	// bottleRadius is the bounding sphere used for hit-testing.
	bottleRadius = 1.5

	// viewExtent is the half-width of the overhead camera's view. The
	// spiral tops out at radius 50 for a full session, so the whole
	// pool stays in frame.
	viewExtent = 60.0

	waveMeshSize = 16

	DefaultFrameInterval = 33 * time.Millisecond
	DefaultSinkDuration  = 1500 * time.Millisecond
)

// Bottle is one pooled object. Position and Rotation are animation
// outputs recomputed every frame; Opacity drops below 1 only while
// sinking.
type Bottle struct {
	MessageID string
	Position  types.Placement
	Rotation  float64
	Opacity   float64
	Color     string

	spawnIndex int
	sinking    bool
	sinkStart  time.Time
}

// Scene owns the bottle pool and the wave mesh for one display
// surface. All state is behind one mutex; the animation loop, the
// reconciling view, and click handling never interleave mid-frame.
type Scene struct {
	mu          sync.Mutex
	container   string
	interactive bool
	onRead      func(messageID string)

	bottles    map[string]*Bottle
	spawnCount int
	wave       *waveMesh
	epoch      time.Time
	now        func() time.Time

	frameInterval time.Duration
	sinkDuration  time.Duration

	running  bool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewScene builds a scene over the given display surface and seeds the
// pool from the current message list. The onRead callback fires when a
// click resolves to a bottle; it is only used in interactive scenes.
func NewScene(container string, messages []*types.Message, interactive bool, onRead func(messageID string)) *Scene {
	s := &Scene{
		container:     container,
		interactive:   interactive,
		onRead:        onRead,
		bottles:       make(map[string]*Bottle),
		wave:          newWaveMesh(waveMeshSize, viewExtent),
		epoch:         time.Now(),
		now:           time.Now,
		frameInterval: DefaultFrameInterval,
		sinkDuration:  DefaultSinkDuration,
	}
	s.Reconcile(messages)
	return s
}

// SetFrameInterval adjusts the animation cadence. Takes effect on the
// next Start.
func (s *Scene) SetFrameInterval(d time.Duration) {
	s.mu.Lock()
	s.frameInterval = d
	s.mu.Unlock()
}

// SetSinkDuration adjusts the sink-and-fade length for subsequent
// removals.
func (s *Scene) SetSinkDuration(d time.Duration) {
	s.mu.Lock()
	s.sinkDuration = d
	s.mu.Unlock()
}

// Reconcile makes pool membership catch up with the authoritative
// message list. Add-only: every eligible message not yet pooled gets a
// bottle at its precomputed placement; messages already pooled are
// untouched, and nothing is ever removed here. Interactive scenes show
// only unread messages; display scenes show everything.
func (s *Scene) Reconcile(current []*types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range current {
		if _, pooled := s.bottles[m.ID]; pooled {
			continue
		}
		if s.interactive && m.Read {
			continue
		}
		s.bottles[m.ID] = &Bottle{
			MessageID:  m.ID,
			Position:   m.Placement,
			Opacity:    1,
			Color:      m.Color,
			spawnIndex: s.spawnCount,
		}
		s.spawnCount++
		added++
	}

	if added > 0 {
		bottlesSpawned.Add(float64(added))
		log.Debug().Str("container", s.container).Int("added", added).Int("pool", len(s.bottles)).Msg("bottles reconciled")
	}
}

// RemoveBottle starts the sink-and-fade removal for one bottle. The
// bottle leaves the pool when the animation completes. Unknown and
// already-sinking IDs are no-ops.
func (s *Scene) RemoveBottle(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bottles[messageID]
	if !ok || b.sinking {
		return
	}
	b.sinking = true
	b.sinkStart = s.now()
}

// Advance steps the animation to the given time: sinusoidal bob and
// sway on every floating bottle, linear sink-and-fade on removing
// ones, and the two-term wave displacement across the mesh.
func (s *Scene) Advance(now time.Time) {
	start := time.Now()

	s.mu.Lock()
	t := now.Sub(s.epoch).Seconds()

	for id, b := range s.bottles {
		if b.sinking {
			progress := float64(now.Sub(b.sinkStart)) / float64(s.sinkDuration)
			if progress >= 1 {
				delete(s.bottles, id)
				bottlesSunk.Inc()
				continue
			}
			if progress < 0 {
				progress = 0
			}
			b.Position.Y = -sinkDepth * progress
			b.Opacity = 1 - progress
			continue
		}

		phase := float64(b.spawnIndex) * phaseStep
		b.Position.Y = bobAmplitude * math.Sin(t*bobSpeed+phase)
		b.Rotation = swayAmplitude * math.Sin(t*swaySpeed+phase)
	}

	s.wave.advance(t)
	s.mu.Unlock()

	frameDuration.Observe(time.Since(start).Seconds())
}

// Start launches the animation loop. A scene already running must be
// stopped first; one surface is never driven by two loops.
func (s *Scene) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSceneRunning
	}
	s.running = true
	s.shutdown = make(chan struct{})
	interval := s.frameInterval
	s.mu.Unlock()

	log.Info().Str("container", s.container).Dur("frame", interval).Msg("animation loop started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Advance(s.now())
			case <-s.shutdown:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop halts the animation loop. Stopping a stopped scene is a no-op.
func (s *Scene) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.shutdown)
	s.mu.Unlock()

	s.wg.Wait()
	log.Info().Str("container", s.container).Msg("animation loop stopped")
}

// BottleCount reports current pool size, sinking bottles included.
func (s *Scene) BottleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bottles)
}

// Bottles returns value copies of the pooled bottles.
func (s *Scene) Bottles() []Bottle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Bottle, 0, len(s.bottles))
	for _, b := range s.bottles {
		out = append(out, *b)
	}
	return out
}

// Bottle returns a value copy of one pooled bottle.
func (s *Scene) Bottle(messageID string) (Bottle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bottles[messageID]
	if !ok {
		return Bottle{}, false
	}
	return *b, true
}

// WaveHeights returns a copy of the current wave-mesh height grid.
func (s *Scene) WaveHeights() [][]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wave.snapshot()
}

// Container reports the display surface identifier the scene drives.
func (s *Scene) Container() string { return s.container }

// Interactive reports whether click-to-read is enabled.
func (s *Scene) Interactive() bool { return s.interactive }
