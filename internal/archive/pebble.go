package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// sessionKeyPrefix namespaces session snapshots inside the keyspace.
const sessionKeyPrefix = "s:"

// Pebble stores session snapshots in an embedded Pebble database,
// one `s:<code>` key per session with a JSON value. Writes are
// synchronous; the dataset is at most a few hundred small records,
// so durability wins over write latency.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a Pebble database at dir.
func OpenPebble(dir string) (*Pebble, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble archive: %w", err)
	}
	return &Pebble{db: db}, nil
}

func sessionKey(code string) []byte {
	return []byte(sessionKeyPrefix + code)
}

func (p *Pebble) Put(ctx context.Context, session *types.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", session.Code, err)
	}
	if err := p.db.Set(sessionKey(session.Code), payload, pebble.Sync); err != nil {
		return fmt.Errorf("failed to store session %s: %w", session.Code, err)
	}
	return nil
}

func (p *Pebble) Get(ctx context.Context, code string) (*types.Session, error) {
	value, closer, err := p.db.Get(sessionKey(code))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, interfaces.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", code, err)
	}
	defer func() { _ = closer.Close() }()

	var session types.Session
	if err := json.Unmarshal(value, &session); err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", code, err)
	}
	return &session, nil
}

func (p *Pebble) Delete(ctx context.Context, code string) error {
	if err := p.db.Delete(sessionKey(code), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", code, err)
	}
	return nil
}

func (p *Pebble) List(ctx context.Context) ([]*types.Session, error) {
	// The upper bound is the prefix with its last byte bumped, so the
	// iterator covers exactly the s: keyspace.
	it, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(sessionKeyPrefix),
		UpperBound: []byte("s;"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	defer func() { _ = it.Close() }()

	var sessions []*types.Session
	for it.First(); it.Valid(); it.Next() {
		var session types.Session
		if err := json.Unmarshal(it.Value(), &session); err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, it.Error()
}

func (p *Pebble) Ping(ctx context.Context) error {
	// A point read against a known-absent key exercises the full read
	// path without touching real data.
	_, closer, err := p.db.Get([]byte("ping"))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return closer.Close()
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
