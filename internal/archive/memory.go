package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// Memory is the default backend: a process-lifetime map of serialized
// snapshots. Sessions are stored as JSON so the archive never aliases
// live registry state; a Get always yields an independent copy.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory archive.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, session *types.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", session.Code, err)
	}

	m.mu.Lock()
	m.data[session.Code] = payload
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, code string) (*types.Session, error) {
	m.mu.RLock()
	payload, ok := m.data[code]
	m.mu.RUnlock()

	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}

	var session types.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", code, err)
	}
	return &session, nil
}

func (m *Memory) Delete(ctx context.Context, code string) error {
	m.mu.Lock()
	delete(m.data, code)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(ctx context.Context) ([]*types.Session, error) {
	m.mu.RLock()
	payloads := make([][]byte, 0, len(m.data))
	for _, p := range m.data {
		payloads = append(payloads, p)
	}
	m.mu.RUnlock()

	sessions := make([]*types.Session, 0, len(payloads))
	for _, p := range payloads {
		var session types.Session
		if err := json.Unmarshal(p, &session); err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
