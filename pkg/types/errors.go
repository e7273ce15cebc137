package types

import "errors"

// Validation errors surfaced before any mutation reaches the store.
var (
	ErrInvalidMode         = errors.New("unknown session mode")
	ErrMissingPrompt       = errors.New("question mode requires a prompt")
	ErrMissingOptionLabels = errors.New("question mode requires both option labels")
	ErrUnexpectedFields    = errors.New("free mode takes no prompt or option labels")
	ErrTimeoutTooShort     = errors.New("session timeout must be at least 10 seconds")
	ErrMissingParticipant  = errors.New("message requires a participant ID")
	ErrEmptyMessage        = errors.New("message text cannot be empty")
	ErrTooManyWords        = errors.New("message exceeds the 100 word limit")
	ErrMissingOption       = errors.New("question mode requires an option selection")
	ErrInvalidOption       = errors.New("selected option must be A or B")
	ErrUnexpectedOption    = errors.New("free mode takes no option selection")
)
