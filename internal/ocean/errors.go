package ocean

import "errors"

var ErrSceneRunning = errors.New("animation loop is already running")
