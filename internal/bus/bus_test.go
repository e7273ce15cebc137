package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
)

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	b := New(time.Second)

	var order []string
	b.Subscribe("message_added", func(evt interfaces.Event) {
		order = append(order, "first")
	})
	b.Subscribe("message_added", func(evt interfaces.Event) {
		order = append(order, "second")
	})
	b.Subscribe("message_added", func(evt interfaces.Event) {
		order = append(order, "third")
	})

	b.Publish("message_added", interfaces.Event{Code: "AB12CD34"})

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("delivered %d handlers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("delivery order = %v, want %v", order, want)
			break
		}
	}
}

func TestPublishCarriesPayload(t *testing.T) {
	b := New(time.Second)

	var got interfaces.Event
	b.Subscribe(interfaces.EventMessageAdded, func(evt interfaces.Event) { got = evt })

	b.Publish(interfaces.EventMessageAdded, interfaces.Event{Code: "AB12CD34", MessageID: "m1"})

	if got.Code != "AB12CD34" || got.MessageID != "m1" {
		t.Errorf("payload = %+v", got)
	}
}

func TestPublishOnlyReachesMatchingName(t *testing.T) {
	b := New(time.Second)

	calls := 0
	b.Subscribe("session_created", func(evt interfaces.Event) { calls++ })

	b.Publish("session_closed", interfaces.Event{Code: "AB12CD34"})

	if calls != 0 {
		t.Errorf("handler for session_created fired on session_closed")
	}
}

func TestCancelledSubscriptionReceivesNothing(t *testing.T) {
	b := New(time.Second)

	var order []string
	b.Subscribe("message_added", func(evt interfaces.Event) {
		order = append(order, "first")
	})
	sub := b.Subscribe("message_added", func(evt interfaces.Event) {
		order = append(order, "second")
	})
	b.Subscribe("message_added", func(evt interfaces.Event) {
		order = append(order, "third")
	})

	sub.Cancel()
	sub.Cancel() // safe to repeat

	b.Publish("message_added", interfaces.Event{})

	if len(order) != 2 || order[0] != "first" || order[1] != "third" {
		t.Errorf("delivery after cancel = %v, want [first third]", order)
	}
	if n := b.SubscriberCount("message_added"); n != 2 {
		t.Errorf("SubscriberCount = %d, want 2", n)
	}
}

func TestSubscribeDuringNoSubscribersIsFine(t *testing.T) {
	b := New(time.Second)
	// Publishing with no handlers must not panic.
	b.Publish("message_added", interfaces.Event{})
}

func TestTickerPublishesStateUpdates(t *testing.T) {
	b := New(5 * time.Millisecond)

	updates := make(chan interfaces.Event, 16)
	b.Subscribe(interfaces.EventStateUpdate, func(evt interfaces.Event) {
		select {
		case updates <- evt:
		default:
		}
	})

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = b.Stop() }()

	select {
	case evt := <-updates:
		if evt != (interfaces.Event{}) {
			t.Errorf("state_update payload = %+v, want zero event", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no state_update within a second")
	}
}

func TestStartTwiceFails(t *testing.T) {
	b := New(time.Hour)

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer func() { _ = b.Stop() }()

	if err := b.Start(context.Background()); !errors.Is(err, ErrTickerRunning) {
		t.Errorf("second start = %v, want ErrTickerRunning", err)
	}
}

func TestStopWithoutStartFails(t *testing.T) {
	b := New(time.Hour)
	if err := b.Stop(); !errors.Is(err, ErrTickerNotRunning) {
		t.Errorf("stop = %v, want ErrTickerNotRunning", err)
	}
}

func TestStopThenRestart(t *testing.T) {
	b := New(time.Hour)

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := b.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := b.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
