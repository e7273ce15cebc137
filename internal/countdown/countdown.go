// Package countdown derives a session's timer display from stored
// data alone. No timer state is persisted: remaining time recomputes
// from CreatedAt and the timeout, so a countdown torn down on a view
// transition resumes correctly when recreated.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// Phase is a presentation state of the running timer.
type Phase string

const (
	PhaseRunning Phase = "running"
	PhaseWarning Phase = "warning"
	PhaseDanger  Phase = "danger"
	PhaseExpired Phase = "expired"
)

// Phase thresholds.
const (
	warningAt = 60 * time.Second
	dangerAt  = 30 * time.Second
)

// PhaseFor maps remaining time onto the phase machine:
// running -> warning (<=60s) -> danger (<=30s) -> expired.
func PhaseFor(remaining time.Duration) Phase {
	switch {
	case remaining <= 0:
		return PhaseExpired
	case remaining <= dangerAt:
		return PhaseDanger
	case remaining <= warningAt:
		return PhaseWarning
	default:
		return PhaseRunning
	}
}

// Remaining derives the time left before auto-close, floored at zero.
func Remaining(session *types.Session, now time.Time) time.Duration {
	deadline := session.CreatedAt.Add(time.Duration(session.TimeoutSeconds) * time.Second)
	left := deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// FormatClock renders remaining time as M:SS.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	total := int(remaining / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Countdown re-evaluates one session's phase on a fixed interval,
// reporting transitions and closing the session through the store on
// expiry.
type Countdown struct {
	store    *store.Store
	code     string
	interval time.Duration
	now      func() time.Time

	// OnPhase fires on every phase transition, including the initial
	// phase. OnExpired fires once, after the session is closed, and
	// hands control to the review flow.
	OnPhase   func(Phase)
	OnExpired func()

	mu       sync.Mutex
	running  bool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New creates a countdown for the session with the given code.
func New(st *store.Store, code string, interval time.Duration) *Countdown {
	return &Countdown{
		store:    st,
		code:     code,
		interval: interval,
		now:      time.Now,
	}
}

// Start launches the check loop.
func (c *Countdown) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrCountdownRunning
	}
	c.running = true
	c.shutdown = make(chan struct{})
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx, c.shutdown)
	return nil
}

// Stop halts the check loop. Stopping a stopped countdown is a no-op.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.shutdown)
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Countdown) run(ctx context.Context, shutdown chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var last Phase
	seeded := false

	for {
		phase, done := c.check(last, seeded)
		if done {
			return
		}
		last, seeded = phase, true

		select {
		case <-ticker.C:
		case <-shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// check evaluates the current phase once. It returns done when the
// countdown has nothing further to do: expiry, explicit close, or a
// swept session.
func (c *Countdown) check(last Phase, seeded bool) (Phase, bool) {
	session, err := c.store.GetSession(c.code)
	if err != nil {
		return last, true
	}
	if !session.Active {
		return last, true
	}

	phase := PhaseFor(Remaining(session, c.now()))
	if !seeded || phase != last {
		if c.OnPhase != nil {
			c.OnPhase(phase)
		}
	}

	if phase == PhaseExpired {
		log.Info().Str("code", c.code).Msg("countdown expired")
		if err := c.store.CloseSession(c.code); err != nil {
			log.Warn().Err(err).Str("code", c.code).Msg("close on expiry failed")
		}
		if c.OnExpired != nil {
			c.OnExpired()
		}
		return phase, true
	}
	return phase, false
}
