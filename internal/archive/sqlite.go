package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// schemaVersion is tracked through PRAGMA user_version so a future
// payload change can migrate in place.
const schemaVersion = 1

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS sessions (
	code       TEXT PRIMARY KEY,
	active     INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
)`

// SQLite persists session snapshots in a single table: the full
// serialized shape in a JSON payload column, with active/created_at
// broken out for queryability. All writes funnel through a single
// writer goroutine; SQLite holds one write lock per database, so
// serializing writes in-process avoids busy errors under load.
type SQLite struct {
	db           *sql.DB
	writeChannel chan writeOperation
	shutdown     chan struct{}
	wg           sync.WaitGroup
	retryDelay   time.Duration
	writeTimeout time.Duration
	closed       bool
	mu           sync.RWMutex
}

type writeOperation struct {
	operation func(*sql.DB) error
	result    chan error
}

// OpenSQLite opens (or creates) the database at path and prepares the
// schema. WAL journaling and a busy timeout are set on the connection
// string so concurrent readers never block the writer.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if err := prepareSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &SQLite{
		db:           db,
		writeChannel: make(chan writeOperation, 100),
		shutdown:     make(chan struct{}),
		retryDelay:   time.Second,
		writeTimeout: 30 * time.Second,
	}

	a.wg.Add(1)
	go a.writeLoop()

	return a, nil
}

func prepareSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version < schemaVersion {
		if _, err := db.Exec(createSessionsTable); err != nil {
			return fmt.Errorf("failed to create sessions table: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}
	return nil
}

// writeLoop processes all write operations in a single goroutine,
// retrying each failed write exactly once. On shutdown it drains the
// queue before returning: every operation enqueued before Close is
// served, so no caller is left waiting on its result.
func (a *SQLite) writeLoop() {
	defer a.wg.Done()

	for {
		select {
		case op := <-a.writeChannel:
			a.serveWrite(op)

		case <-a.shutdown:
			for {
				select {
				case op := <-a.writeChannel:
					a.serveWrite(op)
				default:
					return
				}
			}
		}
	}
}

func (a *SQLite) serveWrite(op writeOperation) {
	err := op.operation(a.db)
	if err != nil {
		log.Warn().Err(err).Dur("retry_in", a.retryDelay).Msg("archive write failed, retrying")
		time.Sleep(a.retryDelay)
		err = op.operation(a.db)
		if err != nil {
			log.Warn().Err(err).Msg("archive write failed after retry")
		}
	}
	op.result <- err
}

// executeWrite enqueues while holding the read lock: Close takes the
// write lock before signalling shutdown, so an operation is either
// enqueued ahead of the shutdown drain or rejected here, never lost in
// between.
func (a *SQLite) executeWrite(operation func(*sql.DB) error) error {
	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		return ErrArchiveClosed
	}

	result := make(chan error, 1)

	select {
	case a.writeChannel <- writeOperation{operation: operation, result: result}:
		a.mu.RUnlock()
		return <-result
	case <-time.After(a.writeTimeout):
		a.mu.RUnlock()
		return ErrWriteTimeout
	}
}

func (a *SQLite) Put(ctx context.Context, session *types.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", session.Code, err)
	}

	active := 0
	if session.Active {
		active = 1
	}
	createdAt := session.CreatedAt.UTC().Format(time.RFC3339Nano)

	return a.executeWrite(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO sessions (code, active, created_at, payload)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET
				active = excluded.active,
				payload = excluded.payload`,
			session.Code, active, createdAt, string(payload))
		if err != nil {
			return fmt.Errorf("failed to store session %s: %w", session.Code, err)
		}
		return nil
	})
}

func (a *SQLite) Get(ctx context.Context, code string) (*types.Session, error) {
	var payload string
	err := a.db.QueryRowContext(ctx, "SELECT payload FROM sessions WHERE code = ?", code).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, interfaces.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session %s: %w", code, err)
	}

	var session types.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", code, err)
	}
	return &session, nil
}

func (a *SQLite) Delete(ctx context.Context, code string) error {
	return a.executeWrite(func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, "DELETE FROM sessions WHERE code = ?", code); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", code, err)
		}
		return nil
	})
}

func (a *SQLite) List(ctx context.Context) ([]*types.Session, error) {
	rows, err := a.db.QueryContext(ctx, "SELECT payload FROM sessions ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*types.Session
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		var session types.Session
		if err := json.Unmarshal([]byte(payload), &session); err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

func (a *SQLite) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close stops accepting new writes, waits for every pending write to
// complete, and closes the database.
func (a *SQLite) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	close(a.shutdown)
	a.wg.Wait()
	return a.db.Close()
}
