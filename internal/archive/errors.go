package archive

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown archive backend")
	ErrArchiveClosed  = errors.New("archive is closed")
	ErrWriteTimeout   = errors.New("archive write timed out")
)
