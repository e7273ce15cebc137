package bus

import "errors"

var (
	ErrTickerRunning    = errors.New("polling ticker is already running")
	ErrTickerNotRunning = errors.New("polling ticker is not running")
)
