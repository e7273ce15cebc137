package interfaces

import "errors"

// Sentinels shared across component boundaries.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageNotFound = errors.New("message not found")
)
