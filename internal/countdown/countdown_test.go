package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/Boltio1992/BottleMessage/internal/archive"
	"github.com/Boltio1992/BottleMessage/internal/bus"
	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      Phase
	}{
		{120 * time.Second, PhaseRunning},
		{61 * time.Second, PhaseRunning},
		{60 * time.Second, PhaseWarning},
		{45 * time.Second, PhaseWarning},
		{31 * time.Second, PhaseWarning},
		{30 * time.Second, PhaseDanger},
		{20 * time.Second, PhaseDanger},
		{time.Second, PhaseDanger},
		{0, PhaseExpired},
		{-5 * time.Second, PhaseExpired},
	}

	for _, tt := range tests {
		if got := PhaseFor(tt.remaining); got != tt.want {
			t.Errorf("PhaseFor(%v) = %s, want %s", tt.remaining, got, tt.want)
		}
	}
}

func TestRemaining(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	session := &types.Session{CreatedAt: created, TimeoutSeconds: 120}

	if got := Remaining(session, created.Add(30*time.Second)); got != 90*time.Second {
		t.Errorf("Remaining after 30s = %v, want 90s", got)
	}
	if got := Remaining(session, created.Add(3*time.Minute)); got != 0 {
		t.Errorf("Remaining past deadline = %v, want 0", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{125 * time.Second, "2:05"},
		{60 * time.Second, "1:00"},
		{9 * time.Second, "0:09"},
		{0, "0:00"},
		{-time.Second, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.remaining); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.remaining, got, tt.want)
		}
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(archive.NewMemory(), bus.New(time.Hour))
	t.Cleanup(st.Stop)
	return st
}

func TestCountdownExpiresAndClosesOnce(t *testing.T) {
	st := newTestStore(t)

	session, err := st.CreateSession(types.SessionConfig{Mode: types.ModeFree, TimeoutSeconds: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	expired := make(chan struct{}, 2)
	var phases []Phase

	c := New(st, session.Code, time.Millisecond)
	// Run the countdown's clock past the deadline so the first check
	// sees expiry.
	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	c.OnPhase = func(p Phase) { phases = append(phases, p) }
	c.OnExpired = func() { expired <- struct{}{} }

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("countdown never expired")
	}

	got, err := st.GetSession(session.Code)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got.Active {
		t.Error("session still active after expiry")
	}
	if len(phases) == 0 || phases[len(phases)-1] != PhaseExpired {
		t.Errorf("phases = %v, want trailing expired", phases)
	}

	select {
	case <-expired:
		t.Error("OnExpired fired more than once")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCountdownReportsInitialPhase(t *testing.T) {
	st := newTestStore(t)

	session, err := st.CreateSession(types.SessionConfig{Mode: types.ModeFree, TimeoutSeconds: 45})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	phaseCh := make(chan Phase, 1)
	c := New(st, session.Code, time.Hour)
	c.OnPhase = func(p Phase) {
		select {
		case phaseCh <- p:
		default:
		}
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	select {
	case p := <-phaseCh:
		if p != PhaseWarning {
			t.Errorf("initial phase = %s, want warning at 45s remaining", p)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial phase reported")
	}
}

func TestCountdownStopsWhenSessionClosed(t *testing.T) {
	st := newTestStore(t)

	session, err := st.CreateSession(types.SessionConfig{Mode: types.ModeFree, TimeoutSeconds: 600})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	expiredCalled := false
	c := New(st, session.Code, time.Millisecond)
	c.OnExpired = func() { expiredCalled = true }

	if err := st.CloseSession(session.Code); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	c.Stop()

	if expiredCalled {
		t.Error("OnExpired fired for an explicitly closed session")
	}
}

func TestCountdownStartTwice(t *testing.T) {
	st := newTestStore(t)
	session, _ := st.CreateSession(types.SessionConfig{Mode: types.ModeFree, TimeoutSeconds: 600})

	c := New(st, session.Code, time.Hour)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop()

	if err := c.Start(context.Background()); err != ErrCountdownRunning {
		t.Errorf("second start = %v, want ErrCountdownRunning", err)
	}
}
