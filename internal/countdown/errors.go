package countdown

import "errors"

var ErrCountdownRunning = errors.New("countdown is already running")
