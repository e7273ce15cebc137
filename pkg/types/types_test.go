package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionJSONRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := &Session{
		Code:           "AB12CD34",
		Mode:           ModeQuestion,
		Prompt:         "Cats or dogs?",
		OptionA:        "Cats",
		OptionB:        "Dogs",
		TimeoutSeconds: 120,
		CreatedAt:      created,
		Active:         true,
		Participants: map[string]struct{}{
			"p2": {},
			"p1": {},
		},
		Messages: []*Message{
			{
				ID:             "m1",
				ParticipantID:  "p1",
				Anonymous:      true,
				SelectedOption: OptionA,
				Text:           "I like cats",
				WordCount:      3,
				CreatedAt:      created,
				Placement:      PlacementFor(0),
				Color:          "#2E8B57",
			},
		},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored Session
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if restored.Code != s.Code || restored.Mode != s.Mode {
		t.Errorf("identity fields lost: %+v", restored)
	}
	if len(restored.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(restored.Participants))
	}
	if !restored.HasParticipant("p1") || !restored.HasParticipant("p2") {
		t.Errorf("participant set not restored: %v", restored.Participants)
	}
	if len(restored.Messages) != 1 || restored.Messages[0].ID != "m1" {
		t.Errorf("messages not restored: %+v", restored.Messages)
	}
	if !restored.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", restored.CreatedAt, created)
	}
}

func TestSessionParticipantsSerializeSorted(t *testing.T) {
	s := &Session{
		Code:         "AB12CD34",
		Mode:         ModeFree,
		Participants: map[string]struct{}{"zeta": {}, "alpha": {}, "mid": {}},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw struct {
		Participants []string `json:"participants"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"alpha", "mid", "zeta"}
	for i, id := range want {
		if raw.Participants[i] != id {
			t.Fatalf("participants = %v, want %v", raw.Participants, want)
		}
	}
}

func TestSessionMessageByID(t *testing.T) {
	s := &Session{
		Messages: []*Message{{ID: "m1"}, {ID: "m2"}},
	}

	if got := s.MessageByID("m2"); got == nil || got.ID != "m2" {
		t.Errorf("MessageByID(m2) = %v", got)
	}
	if got := s.MessageByID("missing"); got != nil {
		t.Errorf("MessageByID(missing) = %v, want nil", got)
	}
}

func TestSessionUnreadCount(t *testing.T) {
	s := &Session{
		Messages: []*Message{{ID: "m1", Read: true}, {ID: "m2"}, {ID: "m3"}},
	}
	if got := s.UnreadCount(); got != 2 {
		t.Errorf("UnreadCount() = %d, want 2", got)
	}
}

func TestRandomColorFromPalette(t *testing.T) {
	valid := make(map[string]bool)
	for _, c := range glassPalette {
		valid[c] = true
	}
	for i := 0; i < 100; i++ {
		if c := RandomColor(); !valid[c] {
			t.Fatalf("RandomColor() = %q, not in palette", c)
		}
	}
}
