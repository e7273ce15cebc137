package types

import (
	"encoding/json"
	"sort"
	"time"
)

// SessionMode selects how a classroom round collects messages.
type SessionMode string

const (
	// ModeFree collects open-ended messages with no prompt.
	ModeFree SessionMode = "free"
	// ModeQuestion pairs a prompt with two answer options.
	ModeQuestion SessionMode = "question"
)

// Option labels a question-mode answer choice.
const (
	OptionA = "A"
	OptionB = "B"
)

// Capacity limits. Both caps reject further mutation once reached;
// nothing is ever truncated to fit.
const (
	MaxMessagesPerSession     = 100
	MaxParticipantsPerSession = 100
	MaxMessageWords           = 100
	CodeLength                = 8
)

// Session is one teacher-initiated discussion round, identified by an
// 8-character uppercase alphanumeric code. The prompt and option labels
// are non-empty exactly when Mode is ModeQuestion; a free session
// carries none of the three. Participants is the canonical set
// container for submitter identities; it is externalized as a sorted
// sequence (see MarshalJSON). Messages keep submission order.
type Session struct {
	Code           string              `json:"code"`
	Mode           SessionMode         `json:"mode"`
	Prompt         string              `json:"prompt,omitempty"`
	OptionA        string              `json:"option_a,omitempty"`
	OptionB        string              `json:"option_b,omitempty"`
	TimeoutSeconds int                 `json:"timeout_seconds"`
	CreatedAt      time.Time           `json:"created_at"`
	Active         bool                `json:"active"`
	Participants   map[string]struct{} `json:"-"`
	Messages       []*Message          `json:"messages"`
}

// Message is one student submission, rendered as a bottle. Placement
// and Color are fixed at acceptance; Read is the only field that
// mutates afterwards, and only false->true.
type Message struct {
	ID             string    `json:"id"`
	ParticipantID  string    `json:"participant_id"`
	DisplayName    string    `json:"display_name,omitempty"`
	Anonymous      bool      `json:"anonymous"`
	SelectedOption string    `json:"selected_option,omitempty"`
	Text           string    `json:"text"`
	WordCount      int       `json:"word_count"`
	CreatedAt      time.Time `json:"created_at"`
	Read           bool      `json:"read"`
	Placement      Placement `json:"placement"`
	Color          string    `json:"color"`
}

// Placement is a position on the ocean plane (Y is height).
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HasParticipant reports set membership without exposing the container.
func (s *Session) HasParticipant(participantID string) bool {
	_, ok := s.Participants[participantID]
	return ok
}

// MessageByID returns the message with the given ID, or nil.
func (s *Session) MessageByID(messageID string) *Message {
	for _, m := range s.Messages {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}

// UnreadCount counts messages not yet marked read.
func (s *Session) UnreadCount() int {
	n := 0
	for _, m := range s.Messages {
		if !m.Read {
			n++
		}
	}
	return n
}

// Age reports how long ago the session was created.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// Clone returns a deep copy: the participant set and every message are
// duplicated, so mutations on either side never show through.
func (s *Session) Clone() *Session {
	clone := *s

	clone.Participants = make(map[string]struct{}, len(s.Participants))
	for id := range s.Participants {
		clone.Participants[id] = struct{}{}
	}

	clone.Messages = make([]*Message, len(s.Messages))
	for i, m := range s.Messages {
		clone.Messages[i] = m.Clone()
	}
	return &clone
}

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	clone := *m
	return &clone
}

// sessionJSON is the externalized session shape: the participant set
// travels as a sorted sequence so serialized forms are stable.
type sessionJSON struct {
	Code           string      `json:"code"`
	Mode           SessionMode `json:"mode"`
	Prompt         string      `json:"prompt,omitempty"`
	OptionA        string      `json:"option_a,omitempty"`
	OptionB        string      `json:"option_b,omitempty"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	CreatedAt      time.Time   `json:"created_at"`
	Active         bool        `json:"active"`
	Participants   []string    `json:"participants"`
	Messages       []*Message  `json:"messages"`
}

// MarshalJSON encodes the participant set as a sorted sequence.
func (s *Session) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s.Participants))
	for id := range s.Participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	msgs := s.Messages
	if msgs == nil {
		msgs = []*Message{}
	}

	return json.Marshal(sessionJSON{
		Code:           s.Code,
		Mode:           s.Mode,
		Prompt:         s.Prompt,
		OptionA:        s.OptionA,
		OptionB:        s.OptionB,
		TimeoutSeconds: s.TimeoutSeconds,
		CreatedAt:      s.CreatedAt,
		Active:         s.Active,
		Participants:   ids,
		Messages:       msgs,
	})
}

// UnmarshalJSON restores the participant sequence into the canonical
// set container.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Code = raw.Code
	s.Mode = raw.Mode
	s.Prompt = raw.Prompt
	s.OptionA = raw.OptionA
	s.OptionB = raw.OptionB
	s.TimeoutSeconds = raw.TimeoutSeconds
	s.CreatedAt = raw.CreatedAt
	s.Active = raw.Active

	s.Participants = make(map[string]struct{}, len(raw.Participants))
	for _, id := range raw.Participants {
		s.Participants[id] = struct{}{}
	}

	s.Messages = raw.Messages
	if s.Messages == nil {
		s.Messages = []*Message{}
	}
	return nil
}
