package views

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/internal/bus"
	"github.com/Boltio1992/BottleMessage/internal/countdown"
	"github.com/Boltio1992/BottleMessage/internal/export"
	"github.com/Boltio1992/BottleMessage/internal/ocean"
	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// DashboardView lists every known session for the teacher.
type DashboardView struct {
	screen
	store *store.Store
}

func NewDashboard(st *store.Store, b *bus.Bus, out io.Writer) *DashboardView {
	v := &DashboardView{store: st}
	v.out = out
	v.bus = b
	return v
}

func (v *DashboardView) Mount() {
	v.Render()
	refresh := func(interfaces.Event) { v.Render() }
	v.on(interfaces.EventSessionCreated, refresh)
	v.on(interfaces.EventSessionClosed, refresh)
	v.on(interfaces.EventStateUpdate, refresh)
}

func (v *DashboardView) Render() {
	sessions := v.store.ListSessions()

	var b strings.Builder
	b.WriteString("== Teacher Dashboard ==\n")
	if len(sessions) == 0 {
		b.WriteString("no sessions yet\n")
	}
	for _, s := range sessions {
		status := "closed"
		if s.Active {
			status = "active"
		}
		b.WriteString(s.Code)
		b.WriteString("  ")
		b.WriteString(string(s.Mode))
		b.WriteString("  ")
		b.WriteString(status)
		b.WriteString("  messages=")
		writeInt(&b, len(s.Messages))
		b.WriteString("  participants=")
		writeInt(&b, len(s.Participants))
		b.WriteString("\n")
	}
	v.printf("%s", b.String())
}

// CreateForm is the teacher's session creation form. Mode-conditional
// fields follow the session invariant: prompt and both option labels
// in question mode, none of the three in free mode.
type CreateForm struct {
	Mode           string
	Prompt         string
	OptionA        string
	OptionB        string
	TimeoutSeconds int
}

// Config converts the form into a store-ready session config.
func (f CreateForm) Config() types.SessionConfig {
	return types.SessionConfig{
		Mode:           types.SessionMode(f.Mode),
		Prompt:         strings.TrimSpace(f.Prompt),
		OptionA:        strings.TrimSpace(f.OptionA),
		OptionB:        strings.TrimSpace(f.OptionB),
		TimeoutSeconds: f.TimeoutSeconds,
	}
}

// HandleCreate validates the form and opens the session. Validation
// errors surface inline on the create screen; the successful path
// navigates to the monitor.
func HandleCreate(st *store.Store, form CreateForm) (*types.Session, error) {
	cfg := form.Config()
	if err := cfg.Validate(); err != nil {
		log.Debug().Err(err).Str("mode", form.Mode).Msg("session form rejected")
		return nil, err
	}
	return st.CreateSession(cfg)
}

// MonitorView is the teacher's live view of a running session: stats,
// the countdown banner, and a non-interactive ocean showing every
// bottle.
type MonitorView struct {
	screen
	store *store.Store
	code  string
	scene *ocean.Scene

	phase countdown.Phase
}

func NewMonitor(st *store.Store, b *bus.Bus, out io.Writer, code string) (*MonitorView, error) {
	session, err := st.GetSession(code)
	if err != nil {
		return nil, err
	}

	v := &MonitorView{
		store: st,
		code:  session.Code,
		scene: ocean.NewScene("monitor-canvas", session.Messages, false, nil),
		phase: countdown.PhaseRunning,
	}
	v.out = out
	v.bus = b
	return v, nil
}

func (v *MonitorView) Mount() {
	v.Render()
	v.on(interfaces.EventMessageAdded, func(evt interfaces.Event) {
		if evt.Code != v.code {
			return
		}
		v.reconcile()
		v.Render()
	})
	v.on(interfaces.EventStateUpdate, func(interfaces.Event) {
		v.reconcile()
		v.Render()
	})
}

func (v *MonitorView) reconcile() {
	if session, err := v.store.GetSession(v.code); err == nil {
		v.scene.Reconcile(session.Messages)
	}
}

// ObservePhase is the countdown's OnPhase hook.
func (v *MonitorView) ObservePhase(p countdown.Phase) {
	v.mu.Lock()
	v.phase = p
	v.mu.Unlock()
	v.Render()
}

func (v *MonitorView) Render() {
	stats, err := v.store.Stats(v.code)
	if err != nil {
		v.printf("!! session %s is gone\n", v.code)
		return
	}

	v.mu.Lock()
	phase := v.phase
	v.mu.Unlock()

	clock := countdown.FormatClock(time.Duration(stats.RemainingSeconds) * time.Second)

	v.printf("== Monitor %s ==  [%s %s]  messages=%d participants=%d unread=%d bottles=%d\n",
		stats.Code, phase, clock, stats.MessageCount, stats.ParticipantCount,
		stats.UnreadCount, v.scene.BottleCount())
}

// Scene exposes the monitor's ocean for the animation lifecycle.
func (v *MonitorView) Scene() *ocean.Scene { return v.scene }

// ReviewView is the teacher's post-session screen: an interactive
// ocean of unread bottles, click-to-read, and CSV export.
type ReviewView struct {
	screen
	store *store.Store
	code  string
	scene *ocean.Scene
}

func NewReview(st *store.Store, b *bus.Bus, out io.Writer, code string) (*ReviewView, error) {
	session, err := st.GetSession(code)
	if err != nil {
		return nil, err
	}

	v := &ReviewView{store: st, code: session.Code}
	v.out = out
	v.bus = b
	v.scene = ocean.NewScene("review-canvas", session.Messages, true, func(messageID string) {
		// The read mark round-trips through the store; the bottle is
		// removed by the message_read subscription below, keeping the
		// scene decoupled from the click handler.
		st.MarkMessageRead(v.code, messageID)
	})
	return v, nil
}

func (v *ReviewView) Mount() {
	v.Render()
	v.on(interfaces.EventMessageRead, func(evt interfaces.Event) {
		if evt.Code != v.code {
			return
		}
		v.scene.RemoveBottle(evt.MessageID)
		v.Render()
	})
	v.on(interfaces.EventStateUpdate, func(interfaces.Event) {
		if session, err := v.store.GetSession(v.code); err == nil {
			v.scene.Reconcile(session.Messages)
		}
		v.Render()
	})
}

func (v *ReviewView) Render() {
	stats, err := v.store.Stats(v.code)
	if err != nil {
		v.printf("!! session %s is gone\n", v.code)
		return
	}
	v.printf("== Review %s ==  unread=%d of %d  bottles afloat=%d\n",
		stats.Code, stats.UnreadCount, stats.MessageCount, v.scene.BottleCount())
}

// ReadBottleAt resolves a pointer position to a bottle and marks its
// message read. Reports whether a bottle was hit.
func (v *ReviewView) ReadBottleAt(nx, ny float64) bool {
	return v.scene.Click(nx, ny)
}

// ExportCSV writes the session's messages to w.
func (v *ReviewView) ExportCSV(w io.Writer) error {
	session, err := v.store.GetSession(v.code)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, session)
}

// Scene exposes the review ocean for the animation lifecycle.
func (v *ReviewView) Scene() *ocean.Scene { return v.scene }

func writeInt(b *strings.Builder, n int) {
	b.WriteString(strconv.Itoa(n))
}
