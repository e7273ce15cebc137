// Package archive provides the persistence shim behind the session
// store: a process-lifetime key-value layer keyed by session code,
// with memory, SQLite, and Pebble backends behind the same contract.
package archive

import (
	"fmt"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Open constructs the archive backend selected by name. The path is
// ignored by the memory backend.
func Open(backend, path string) (interfaces.Archive, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendPebble:
		return OpenPebble(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}
