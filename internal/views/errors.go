package views

import "errors"

var ErrEmptyCode = errors.New("enter a session code")
