package store

import "errors"

var (
	ErrSessionClosed      = errors.New("session is closed")
	ErrSessionFull        = errors.New("session is full")
	ErrAlreadySubmitted   = errors.New("participant already submitted a message")
	ErrCodeSpaceExhausted = errors.New("could not generate a unique session code")
)
