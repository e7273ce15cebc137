package interfaces

import (
	"context"

	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// Archive is the persistence shim behind the session store. Values are
// serialized session snapshots keyed by code; the store treats the
// archive as best-effort and stays authoritative for the process
// lifetime when a backend call fails.
type Archive interface {
	// Put stores a snapshot of the session under its code,
	// overwriting any previous snapshot.
	Put(ctx context.Context, session *types.Session) error

	// Get returns the snapshot stored under the code, or
	// ErrSessionNotFound.
	Get(ctx context.Context, code string) (*types.Session, error)

	// Delete removes the snapshot under the code. Deleting a missing
	// code is not an error.
	Delete(ctx context.Context, code string) error

	// List returns every stored session snapshot.
	List(ctx context.Context) ([]*types.Session, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources. Pending writes complete first.
	Close() error
}
