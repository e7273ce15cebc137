// Package sim fabricates classroom participants and drives the
// compose flow with scripted submissions. It stands in for the
// multi-client backend the system deliberately does not have, and it
// exercises the full submit pipeline end to end.
package sim

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/internal/views"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

var firstNames = []string{
	"Ava", "Ben", "Chloe", "Daniel", "Elena", "Felix", "Grace", "Hugo",
	"Iris", "Jonas", "Kira", "Leo", "Mara", "Noah", "Olive", "Pavel",
	"Quinn", "Rosa", "Sami", "Tess",
}

var messagePool = []string{
	"I never thought about it that way before",
	"This reminds me of something we read last week",
	"I disagree with the main argument",
	"Can we talk about this more next class",
	"Honestly I am still confused about the second part",
	"The example from the start finally makes sense now",
	"I think both sides have a point",
	"My group came to the opposite conclusion",
	"This was easier than I expected",
	"I would like to hear what others think",
}

// Participant is one fabricated student identity.
type Participant struct {
	ID   string
	Name string
}

// NewRoster fabricates n distinct participant identities, cycling
// through the name pool with numeric suffixes when n outgrows it.
func NewRoster(n int) []Participant {
	roster := make([]Participant, n)
	for i := range roster {
		name := firstNames[i%len(firstNames)]
		if i >= len(firstNames) {
			name = name + " " + string(rune('0'+i/len(firstNames)))
		}
		roster[i] = Participant{ID: uuid.New().String(), Name: name}
	}
	return roster
}

// Driver submits one scripted message per roster participant through
// the compose flow at a fixed interval. Options are picked pseudo-
// randomly in question mode and anonymity alternates, so both
// submission shapes get exercised.
type Driver struct {
	store    *store.Store
	code     string
	roster   []Participant
	interval time.Duration
}

// NewDriver builds a driver for the session with the given code.
func NewDriver(st *store.Store, code string, roster []Participant, interval time.Duration) *Driver {
	return &Driver{store: st, code: code, roster: roster, interval: interval}
}

// Run submits until the roster is exhausted, the session stops
// accepting, or the context is cancelled. Returns the number of
// accepted submissions.
func (d *Driver) Run(ctx context.Context) (int, error) {
	session, err := d.store.GetSession(d.code)
	if err != nil {
		return 0, err
	}

	accepted := 0
	for i, p := range d.roster {
		select {
		case <-ctx.Done():
			return accepted, ctx.Err()
		case <-time.After(d.interval):
		}

		form := views.ComposeForm{
			ParticipantID: p.ID,
			DisplayName:   p.Name,
			Anonymous:     i%2 == 1,
			Text:          messagePool[i%len(messagePool)],
		}
		if session.Mode == types.ModeQuestion {
			form.Option = types.OptionA
			if rand.IntN(2) == 1 {
				form.Option = types.OptionB
			}
		}

		_, err := views.HandleCompose(d.store, d.code, form)
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, store.ErrSessionClosed):
			// The round ended under us; everyone left stays quiet.
			return accepted, nil
		case errors.Is(err, store.ErrSessionFull):
			return accepted, nil
		default:
			log.Warn().Err(err).Str("participant", p.Name).Msg("scripted submission rejected")
		}
	}
	return accepted, nil
}
