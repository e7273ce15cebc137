package types

import "strings"

// MinTimeoutSeconds is the floor enforced at the store boundary. The
// UI minimum alone is cosmetic; a zero or negative timeout would close
// a session before anyone could join it.
const MinTimeoutSeconds = 10

// SessionConfig carries everything needed to open a new session.
type SessionConfig struct {
	Mode           SessionMode `json:"mode"`
	Prompt         string      `json:"prompt,omitempty"`
	OptionA        string      `json:"option_a,omitempty"`
	OptionB        string      `json:"option_b,omitempty"`
	TimeoutSeconds int         `json:"timeout_seconds"`
}

// Validate checks the mode-conditional field invariant: question mode
// requires prompt and both option labels, free mode forbids all three.
func (c SessionConfig) Validate() error {
	switch c.Mode {
	case ModeFree:
		if c.Prompt != "" || c.OptionA != "" || c.OptionB != "" {
			return ErrUnexpectedFields
		}
	case ModeQuestion:
		if strings.TrimSpace(c.Prompt) == "" {
			return ErrMissingPrompt
		}
		if strings.TrimSpace(c.OptionA) == "" || strings.TrimSpace(c.OptionB) == "" {
			return ErrMissingOptionLabels
		}
	default:
		return ErrInvalidMode
	}

	if c.TimeoutSeconds < MinTimeoutSeconds {
		return ErrTimeoutTooShort
	}
	return nil
}

// MessageInput is a submission before acceptance: no ID, word count,
// placement, or color yet. Those are assigned by the store.
type MessageInput struct {
	ParticipantID  string `json:"participant_id"`
	DisplayName    string `json:"display_name,omitempty"`
	Anonymous      bool   `json:"anonymous"`
	SelectedOption string `json:"selected_option,omitempty"`
	Text           string `json:"text"`
}

// Validate checks the input against the parent session's mode. Option
// selection is required exactly when the session is in question mode.
func (in MessageInput) Validate(mode SessionMode) error {
	if in.ParticipantID == "" {
		return ErrMissingParticipant
	}

	words := CountWords(in.Text)
	if words == 0 {
		return ErrEmptyMessage
	}
	if words > MaxMessageWords {
		return ErrTooManyWords
	}

	switch mode {
	case ModeQuestion:
		switch in.SelectedOption {
		case "":
			return ErrMissingOption
		case OptionA, OptionB:
		default:
			return ErrInvalidOption
		}
	case ModeFree:
		if in.SelectedOption != "" {
			return ErrUnexpectedOption
		}
	default:
		return ErrInvalidMode
	}
	return nil
}

// CountWords counts whitespace-delimited words. Empty or blank input
// counts zero.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
