package views

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Boltio1992/BottleMessage/internal/archive"
	"github.com/Boltio1992/BottleMessage/internal/bus"
	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

func newTestWorld(t *testing.T) (*store.Store, *bus.Bus) {
	t.Helper()
	b := bus.New(time.Hour)
	st := store.New(archive.NewMemory(), b)
	t.Cleanup(st.Stop)
	return st, b
}

func questionForm() CreateForm {
	return CreateForm{
		Mode:           "question",
		Prompt:         "Cats or dogs?",
		OptionA:        "Cats",
		OptionB:        "Dogs",
		TimeoutSeconds: 120,
	}
}

func TestHandleCreateValidates(t *testing.T) {
	st, _ := newTestWorld(t)

	form := questionForm()
	form.Prompt = "  "
	if _, err := HandleCreate(st, form); !errors.Is(err, types.ErrMissingPrompt) {
		t.Errorf("create without prompt = %v, want ErrMissingPrompt", err)
	}
	if len(st.ListSessions()) != 0 {
		t.Error("invalid form reached the store")
	}

	session, err := HandleCreate(st, questionForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.Mode != types.ModeQuestion {
		t.Errorf("mode = %s", session.Mode)
	}
}

func TestDashboardRefreshesOnEvents(t *testing.T) {
	st, b := newTestWorld(t)

	var out strings.Builder
	v := NewDashboard(st, b, &out)
	v.Mount()
	defer v.Unmount()

	if !strings.Contains(out.String(), "no sessions yet") {
		t.Errorf("empty dashboard = %q", out.String())
	}

	// Store publishes through the bus synchronously, so the mounted
	// dashboard re-renders within the create call.
	session, err := HandleCreate(st, questionForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), session.Code) {
		t.Errorf("dashboard missing new session: %q", out.String())
	}
	if !strings.Contains(out.String(), "active") {
		t.Errorf("dashboard missing status: %q", out.String())
	}
}

func TestDashboardUnmountStopsRefresh(t *testing.T) {
	st, b := newTestWorld(t)

	var out strings.Builder
	v := NewDashboard(st, b, &out)
	v.Mount()
	v.Unmount()

	before := out.Len()
	if _, err := HandleCreate(st, questionForm()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Len() != before {
		t.Error("unmounted dashboard still rendering")
	}
}

func TestMonitorNotFound(t *testing.T) {
	st, b := newTestWorld(t)

	var out strings.Builder
	if _, err := NewMonitor(st, b, &out, "NOPE0000"); !errors.Is(err, interfaces.ErrSessionNotFound) {
		t.Errorf("monitor for missing session = %v, want ErrSessionNotFound", err)
	}
}

func TestMonitorTracksSubmissions(t *testing.T) {
	st, b := newTestWorld(t)

	session, err := HandleCreate(st, questionForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var out strings.Builder
	v, err := NewMonitor(st, b, &out, session.Code)
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}
	v.Mount()
	defer v.Unmount()

	_, err = HandleCompose(st, session.Code, ComposeForm{
		ParticipantID: "p1",
		Anonymous:     true,
		Option:        types.OptionA,
		Text:          "I like cats",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if v.Scene().BottleCount() != 1 {
		t.Errorf("monitor scene = %d bottles, want 1", v.Scene().BottleCount())
	}
	if !strings.Contains(out.String(), "messages=1") {
		t.Errorf("monitor output missing message count: %q", out.String())
	}
}

// A mounted monitor refreshes on the polling tick from the bus's own
// goroutine while students submit; both sides must stay consistent.
func TestMonitorRefreshesConcurrentlyWithSubmissions(t *testing.T) {
	st, b := newTestWorld(t)

	session, err := HandleCreate(st, questionForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var out strings.Builder
	v, err := NewMonitor(st, b, &out, session.Code)
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}
	v.Mount()
	defer v.Unmount()

	done := make(chan struct{})
	var ticks sync.WaitGroup
	ticks.Add(1)
	go func() {
		defer ticks.Done()
		for {
			select {
			case <-done:
				return
			default:
				b.Publish(interfaces.EventStateUpdate, interfaces.Event{})
			}
		}
	}()

	for i := 0; i < 30; i++ {
		_, err := HandleCompose(st, session.Code, ComposeForm{
			ParticipantID: fmt.Sprintf("p%03d", i),
			Anonymous:     true,
			Option:        types.OptionA,
			Text:          "I like cats",
		})
		if err != nil {
			t.Fatalf("compose %d: %v", i, err)
		}
	}
	close(done)
	ticks.Wait()

	if v.Scene().BottleCount() != 30 {
		t.Errorf("monitor scene = %d bottles, want 30", v.Scene().BottleCount())
	}
}

func TestReviewReadFlow(t *testing.T) {
	st, b := newTestWorld(t)

	session, err := HandleCreate(st, questionForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := HandleCompose(st, session.Code, ComposeForm{
		ParticipantID: "p1", Anonymous: true, Option: types.OptionA, Text: "I like cats",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if _, err := HandleCompose(st, session.Code, ComposeForm{
		ParticipantID: "p2", DisplayName: "Sam", Option: types.OptionB, Text: "dogs forever",
	}); err != nil {
		t.Fatalf("second compose: %v", err)
	}
	_ = st.CloseSession(session.Code)

	var out strings.Builder
	v, err := NewReview(st, b, &out, session.Code)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	v.Mount()
	defer v.Unmount()

	if v.Scene().BottleCount() != 2 {
		t.Fatalf("review scene = %d bottles, want 2", v.Scene().BottleCount())
	}

	// Click the first bottle: index 0 sits at (5, 0, 0), and the view
	// extent normalizes it.
	if !v.ReadBottleAt(first.Placement.X/60.0, first.Placement.Z/60.0) {
		t.Fatal("click over first bottle missed")
	}

	got, _ := st.GetSession(session.Code)
	if m := got.MessageByID(first.ID); m == nil || !m.Read {
		t.Error("click did not mark the message read")
	}
	if _, pooled := v.Scene().Bottle(first.ID); !pooled {
		t.Error("bottle evicted before its sink animation")
	}

	// A second click on the same spot must miss: the bottle is sinking.
	if v.ReadBottleAt(first.Placement.X/60.0, first.Placement.Z/60.0) {
		t.Error("sinking bottle clicked twice")
	}
}

func TestReviewSkipsReadMessages(t *testing.T) {
	st, b := newTestWorld(t)

	session, _ := HandleCreate(st, questionForm())
	msg, err := HandleCompose(st, session.Code, ComposeForm{
		ParticipantID: "p1", Anonymous: true, Option: types.OptionA, Text: "I like cats",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	st.MarkMessageRead(session.Code, msg.ID)

	var out strings.Builder
	v, err := NewReview(st, b, &out, session.Code)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if v.Scene().BottleCount() != 0 {
		t.Errorf("read message pooled in review scene: %d", v.Scene().BottleCount())
	}
}

func TestReviewExportCSV(t *testing.T) {
	st, b := newTestWorld(t)

	session, _ := HandleCreate(st, questionForm())
	if _, err := HandleCompose(st, session.Code, ComposeForm{
		ParticipantID: "p1", Anonymous: true, Option: types.OptionA, Text: `He said "hi"`,
	}); err != nil {
		t.Fatalf("compose: %v", err)
	}

	var out strings.Builder
	v, err := NewReview(st, b, &out, session.Code)
	if err != nil {
		t.Fatalf("review: %v", err)
	}

	var csv strings.Builder
	if err := v.ExportCSV(&csv); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(csv.String(), `"He said ""hi"""`) {
		t.Errorf("export quoting wrong: %q", csv.String())
	}
	if !strings.HasPrefix(csv.String(), "Timestamp,Name,Anonymous,Option,Message,Word Count\n") {
		t.Errorf("export header wrong: %q", csv.String())
	}
}

func TestHandleJoin(t *testing.T) {
	st, _ := newTestWorld(t)

	session, _ := HandleCreate(st, questionForm())

	got, err := HandleJoin(st, JoinForm{Code: strings.ToLower(session.Code)})
	if err != nil || got.Code != session.Code {
		t.Errorf("join lowercase = %v, %v", got, err)
	}

	if _, err := HandleJoin(st, JoinForm{Code: "  "}); !errors.Is(err, ErrEmptyCode) {
		t.Errorf("join blank = %v, want ErrEmptyCode", err)
	}
	if _, err := HandleJoin(st, JoinForm{Code: "NOPE0000"}); !errors.Is(err, interfaces.ErrSessionNotFound) {
		t.Errorf("join missing = %v, want ErrSessionNotFound", err)
	}
}

func TestHandleComposeValidatesInline(t *testing.T) {
	st, _ := newTestWorld(t)

	session, _ := HandleCreate(st, questionForm())

	_, err := HandleCompose(st, session.Code, ComposeForm{ParticipantID: "p1", Text: "no option picked"})
	if !errors.Is(err, types.ErrMissingOption) {
		t.Errorf("compose without option = %v, want ErrMissingOption", err)
	}

	got, _ := st.GetSession(session.Code)
	if len(got.Messages) != 0 {
		t.Error("invalid compose reached the store")
	}
}

func TestHandleComposeAnonymousDropsName(t *testing.T) {
	st, _ := newTestWorld(t)

	session, _ := HandleCreate(st, questionForm())
	msg, err := HandleCompose(st, session.Code, ComposeForm{
		ParticipantID: "p1",
		DisplayName:   "Sam",
		Anonymous:     true,
		Option:        types.OptionA,
		Text:          "I like cats",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if msg.DisplayName != "" {
		t.Errorf("anonymous message kept display name %q", msg.DisplayName)
	}
}

func TestRenderScreens(t *testing.T) {
	var out strings.Builder

	RenderLanding(&out)
	if !strings.Contains(out.String(), "Message in a Bottle") {
		t.Errorf("landing = %q", out.String())
	}

	out.Reset()
	RenderCompose(&out, &types.Session{
		Mode: types.ModeQuestion, Prompt: "Cats or dogs?", OptionA: "Cats", OptionB: "Dogs",
	})
	if !strings.Contains(out.String(), "[A] Cats") {
		t.Errorf("compose = %q", out.String())
	}

	out.Reset()
	RenderSubmitted(&out, &types.Message{Anonymous: true, Color: "#2E8B57", WordCount: 3})
	if !strings.Contains(out.String(), "Anonymous") || !strings.Contains(out.String(), "#2E8B57") {
		t.Errorf("submitted = %q", out.String())
	}
}
