// Package views holds the per-screen renderers and form handlers.
// Views are thin store callers writing plain text to an io.Writer:
// each one reads the store on render, subscribes to the bus for
// refresh, and releases every subscription on unmount. Form handlers
// validate before touching the store, so validation failures surface
// inline and never reach persistence.
package views

import (
	"fmt"
	"io"
	"sync"

	"github.com/Boltio1992/BottleMessage/internal/bus"
)

// View is a mountable screen.
type View interface {
	// Mount renders the screen and registers its bus subscriptions.
	Mount()
	// Unmount cancels every subscription the view holds. A view left
	// mounted across a navigation keeps re-rendering forever.
	Unmount()
	// Render writes the current screen state.
	Render()
}

// screen carries what every view shares: the output writer, the bus,
// and the subscriptions to release on unmount.
type screen struct {
	mu   sync.Mutex
	out  io.Writer
	bus  *bus.Bus
	subs []*bus.Subscription
}

// on subscribes and remembers the handle for unmount.
func (s *screen) on(name string, handler bus.Handler) {
	s.mu.Lock()
	s.subs = append(s.subs, s.bus.Subscribe(name, handler))
	s.mu.Unlock()
}

// Unmount cancels every subscription. Safe to call repeatedly.
func (s *screen) Unmount() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// printf serializes writes so bus handlers and direct renders never
// interleave mid-line.
func (s *screen) printf(format string, args ...any) {
	s.mu.Lock()
	fmt.Fprintf(s.out, format, args...)
	s.mu.Unlock()
}

// RenderLanding writes the safe landing screen every navigational
// error falls back to.
func RenderLanding(out io.Writer) {
	fmt.Fprintln(out, "== Message in a Bottle ==")
	fmt.Fprintln(out, "[teacher] open the dashboard   [join] enter a session code")
}

// RenderNotFound writes the transient notice shown before the
// redirect to the landing view.
func RenderNotFound(out io.Writer, code string) {
	fmt.Fprintf(out, "!! no session with code %s\n", code)
	RenderLanding(out)
}
