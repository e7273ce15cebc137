// Package store is the single source of truth for all sessions. Every
// read and every mutation funnels through the Store. Reads hand out
// deep snapshots, never the registered objects, so renderers and the
// ocean scene can consume them off the store's lock while mutations
// proceed; callers observe later changes only by re-reading.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

// Store owns the code-keyed session registry, the per-session
// auto-close timers, and the archive shim behind them. The registry is
// guarded by one RWMutex; within a mutation, change -> persist ->
// notify runs as one uninterrupted sequence (notification fires after
// the lock is released so handlers can re-read the store).
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
	timers   map[string]*time.Timer

	archive interfaces.Archive
	events  interfaces.EventPublisher
	now     func() time.Time
}

// SessionStats is the monitor view's derived summary of one session.
type SessionStats struct {
	Code             string
	Mode             types.SessionMode
	Active           bool
	MessageCount     int
	ParticipantCount int
	UnreadCount      int
	RemainingSeconds int
}

// New creates a store over the given archive and event publisher.
func New(archive interfaces.Archive, events interfaces.EventPublisher) *Store {
	return &Store{
		sessions: make(map[string]*types.Session),
		timers:   make(map[string]*time.Timer),
		archive:  archive,
		events:   events,
		now:      time.Now,
	}
}

// LoadSessions hydrates the registry from the archive. Auto-close
// timers are derived state, so recovery recomputes each active
// session's remaining time from CreatedAt and timeout; sessions past
// their deadline are closed immediately.
func (s *Store) LoadSessions(ctx context.Context) error {
	sessions, err := s.archive.List(ctx)
	if err != nil {
		return err
	}

	var expired []string

	s.mu.Lock()
	for _, sess := range sessions {
		if sess.Participants == nil {
			sess.Participants = make(map[string]struct{})
		}
		s.sessions[sess.Code] = sess

		if !sess.Active {
			continue
		}
		remaining := sess.CreatedAt.Add(time.Duration(sess.TimeoutSeconds) * time.Second).Sub(s.now())
		if remaining <= 0 {
			expired = append(expired, sess.Code)
			continue
		}
		s.scheduleCloseLocked(sess.Code, remaining)
	}
	s.mu.Unlock()

	for _, code := range expired {
		_ = s.CloseSession(code)
	}

	log.Info().Int("sessions", len(sessions)).Int("expired_on_load", len(expired)).Msg("registry hydrated from archive")
	return nil
}

// CreateSession validates the config, registers a session under a
// fresh unique code, schedules its auto-close timer, persists it, and
// publishes session_created.
func (s *Store) CreateSession(cfg types.SessionConfig) (*types.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	code, err := s.generateCodeLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	session := &types.Session{
		Code:           code,
		Mode:           cfg.Mode,
		Prompt:         cfg.Prompt,
		OptionA:        cfg.OptionA,
		OptionB:        cfg.OptionB,
		TimeoutSeconds: cfg.TimeoutSeconds,
		CreatedAt:      s.now(),
		Active:         true,
		Participants:   make(map[string]struct{}),
		Messages:       []*types.Message{},
	}
	s.sessions[code] = session
	s.scheduleCloseLocked(code, time.Duration(cfg.TimeoutSeconds)*time.Second)
	s.persistLocked(session)
	snapshot := session.Clone()
	s.mu.Unlock()

	sessionsCreated.Inc()
	log.Info().Str("code", code).Str("mode", string(cfg.Mode)).Int("timeout_s", cfg.TimeoutSeconds).Msg("session created")
	s.events.Publish(interfaces.EventSessionCreated, interfaces.Event{Code: code})
	return snapshot, nil
}

// GetSession looks up a session by code, case-insensitively. The
// returned value is a snapshot taken under the lock: callers see later
// mutations only by re-reading through the store.
func (s *Store) GetSession(code string) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[normalizeCode(code)]
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// AddParticipant registers a participant with a session. Idempotent;
// returns false when the session is missing or the participant cap
// would be exceeded. Capacity and existence are internal signals here,
// not user-facing errors.
func (s *Store) AddParticipant(code, participantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[normalizeCode(code)]
	if !ok {
		return false
	}
	if session.HasParticipant(participantID) {
		return true
	}
	if len(session.Participants) >= types.MaxParticipantsPerSession {
		return false
	}

	session.Participants[participantID] = struct{}{}
	s.persistLocked(session)
	return true
}

// AddMessage accepts a submission into a session. All preconditions
// are checked atomically under the write lock, including the
// one-message-per-participant rule. On success the message gets its
// ID, word count, golden-angle placement, and color, the submitter is
// registered as a participant, and message_added is published.
func (s *Store) AddMessage(code string, input types.MessageInput) (*types.Message, error) {
	s.mu.Lock()

	session, ok := s.sessions[normalizeCode(code)]
	if !ok {
		s.mu.Unlock()
		messagesRejected.Inc()
		return nil, interfaces.ErrSessionNotFound
	}
	if !session.Active {
		s.mu.Unlock()
		messagesRejected.Inc()
		return nil, ErrSessionClosed
	}
	if err := input.Validate(session.Mode); err != nil {
		s.mu.Unlock()
		messagesRejected.Inc()
		return nil, err
	}
	for _, m := range session.Messages {
		if m.ParticipantID == input.ParticipantID {
			s.mu.Unlock()
			messagesRejected.Inc()
			return nil, ErrAlreadySubmitted
		}
	}
	if len(session.Messages) >= types.MaxMessagesPerSession {
		s.mu.Unlock()
		messagesRejected.Inc()
		return nil, ErrSessionFull
	}
	if !session.HasParticipant(input.ParticipantID) && len(session.Participants) >= types.MaxParticipantsPerSession {
		s.mu.Unlock()
		messagesRejected.Inc()
		return nil, ErrSessionFull
	}

	message := &types.Message{
		ID:             uuid.New().String(),
		ParticipantID:  input.ParticipantID,
		DisplayName:    input.DisplayName,
		Anonymous:      input.Anonymous,
		SelectedOption: input.SelectedOption,
		Text:           input.Text,
		WordCount:      types.CountWords(input.Text),
		CreatedAt:      s.now(),
		Placement:      types.PlacementFor(len(session.Messages)),
		Color:          types.RandomColor(),
	}
	session.Messages = append(session.Messages, message)
	session.Participants[input.ParticipantID] = struct{}{}
	s.persistLocked(session)
	code = session.Code
	snapshot := message.Clone()
	s.mu.Unlock()

	messagesAccepted.Inc()
	log.Info().Str("code", code).Str("message_id", snapshot.ID).Int("words", snapshot.WordCount).Msg("message accepted")
	s.events.Publish(interfaces.EventMessageAdded, interfaces.Event{Code: code, MessageID: snapshot.ID})
	return snapshot, nil
}

// MarkMessageRead flips a message's read flag, false to true only.
// Returns true on the transition and publishes message_read; repeat
// calls and misses return false without touching anything.
func (s *Store) MarkMessageRead(code, messageID string) bool {
	s.mu.Lock()

	session, ok := s.sessions[normalizeCode(code)]
	if !ok {
		s.mu.Unlock()
		return false
	}
	message := session.MessageByID(messageID)
	if message == nil || message.Read {
		s.mu.Unlock()
		return false
	}

	message.Read = true
	s.persistLocked(session)
	s.mu.Unlock()

	s.events.Publish(interfaces.EventMessageRead, interfaces.Event{Code: session.Code, MessageID: messageID})
	return true
}

// CloseSession deactivates a session, releases its auto-close timer,
// and publishes session_closed. Closing an already-closed session is a
// no-op without a second event.
func (s *Store) CloseSession(code string) error {
	s.mu.Lock()

	session, ok := s.sessions[normalizeCode(code)]
	if !ok {
		s.mu.Unlock()
		return interfaces.ErrSessionNotFound
	}
	if !session.Active {
		s.mu.Unlock()
		return nil
	}

	session.Active = false
	s.cancelCloseLocked(session.Code)
	s.persistLocked(session)
	s.mu.Unlock()

	sessionsClosed.Inc()
	log.Info().Str("code", session.Code).Msg("session closed")
	s.events.Publish(interfaces.EventSessionClosed, interfaces.Event{Code: session.Code})
	return nil
}

// SweepExpired removes every inactive session whose age exceeds the
// retention window, from registry and archive both. Invoked
// opportunistically at startup rather than on a schedule.
func (s *Store) SweepExpired(retention time.Duration) int {
	now := s.now()
	var removed []string

	s.mu.Lock()
	for code, session := range s.sessions {
		if !session.Active && session.Age(now) > retention {
			delete(s.sessions, code)
			s.cancelCloseLocked(code)
			removed = append(removed, code)
		}
	}
	s.mu.Unlock()

	for _, code := range removed {
		if err := s.archive.Delete(context.Background(), code); err != nil {
			log.Warn().Err(err).Str("code", code).Msg("failed to remove swept session from archive")
		}
	}

	if len(removed) > 0 {
		sweepRemovals.Add(float64(len(removed)))
		log.Info().Int("removed", len(removed)).Dur("retention", retention).Msg("expired sessions swept")
	}
	return len(removed)
}

// ListSessions returns snapshots of all registered sessions, newest
// first.
func (s *Store) ListSessions() []*types.Session {
	s.mu.RLock()
	sessions := make([]*types.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions
}

// Stats derives the monitor view's counts for one session.
func (s *Store) Stats(code string) (SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[normalizeCode(code)]
	if !ok {
		return SessionStats{}, interfaces.ErrSessionNotFound
	}

	remaining := 0
	if session.Active {
		left := session.CreatedAt.Add(time.Duration(session.TimeoutSeconds) * time.Second).Sub(s.now())
		if left > 0 {
			remaining = int(left / time.Second)
		}
	}

	return SessionStats{
		Code:             session.Code,
		Mode:             session.Mode,
		Active:           session.Active,
		MessageCount:     len(session.Messages),
		ParticipantCount: len(session.Participants),
		UnreadCount:      session.UnreadCount(),
		RemainingSeconds: remaining,
	}, nil
}

// Stop releases every pending auto-close timer. Sessions stay
// registered; this is shutdown cleanup, not a close.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, timer := range s.timers {
		timer.Stop()
		delete(s.timers, code)
	}
}

// scheduleCloseLocked arms the auto-close timer for a session. Callers
// must hold the write lock. The timer fires on its own goroutine, so
// the CloseSession call inside re-acquires the lock normally.
func (s *Store) scheduleCloseLocked(code string, after time.Duration) {
	s.timers[code] = time.AfterFunc(after, func() {
		log.Info().Str("code", code).Msg("session timeout reached, auto-closing")
		if err := s.CloseSession(code); err != nil {
			log.Warn().Err(err).Str("code", code).Msg("auto-close failed")
		}
	})
}

func (s *Store) cancelCloseLocked(code string) {
	if timer, ok := s.timers[code]; ok {
		timer.Stop()
		delete(s.timers, code)
	}
}

// persistLocked snapshots the session into the archive. Failures
// degrade to a warning: the registry stays authoritative for the
// process lifetime.
func (s *Store) persistLocked(session *types.Session) {
	if err := s.archive.Put(context.Background(), session); err != nil {
		archiveFailures.Inc()
		log.Warn().Err(err).Str("code", session.Code).Msg("archive write failed, registry remains authoritative")
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
