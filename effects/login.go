// Package effects runs the side effects triggered by store events.
package effects

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/store"
)

// Authenticator performs a single login attempt
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*store.User, error)
}

// LoginEffect calls the Authenticator for every LoginIntent and emits the
// outcome as a store.Outcome numbered after the intent. Only the most
// recent intent may produce an outcome: when a new intent arrives, the call
// in flight is cancelled and whatever it returns is dropped.
type LoginEffect struct {
	auth   Authenticator
	logger zerolog.Logger
}

// NewLoginEffect creates a login effect backed by auth
func NewLoginEffect(auth Authenticator, logger zerolog.Logger) *LoginEffect {
	return &LoginEffect{
		auth:   auth,
		logger: logger,
	}
}

// result is the settled outcome of one login call
type result struct {
	generation uint64
	event      store.Event
}

// Run implements store.Effect. The output channel is closed after ctx is
// done, or after in is closed and the last call has settled.
func (e *LoginEffect) Run(ctx context.Context, in <-chan store.Event) <-chan store.Event {
	out := make(chan store.Event)
	go e.loop(ctx, in, out)
	return out
}

func (e *LoginEffect) loop(ctx context.Context, in <-chan store.Event, out chan<- store.Event) {
	defer close(out)

	var (
		generation uint64
		inFlight   bool
		cancelCall context.CancelFunc = func() {}
		pending    []store.Event
		results    = make(chan result)
	)
	defer func() { cancelCall() }()

	for {
		if in == nil && !inFlight && len(pending) == 0 {
			return
		}

		// out is only selected while something is queued
		var (
			emit chan<- store.Event
			next store.Event
		)
		if len(pending) > 0 {
			emit = out
			next = pending[0]
		}

		select {
		case <-ctx.Done():
			return

		case ev, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			intent, isIntent := asIntent(ev)
			if !isIntent {
				continue
			}

			cancelCall()
			generation++
			inFlight = true

			var callCtx context.Context
			callCtx, cancelCall = context.WithCancel(ctx)

			e.logger.Debug().
				Uint64("generation", generation).
				Str("username", intent.Username).
				Msg("Starting login")

			go e.call(callCtx, generation, intent, results)

		case r := <-results:
			if r.generation != generation {
				e.logger.Debug().
					Uint64("generation", r.generation).
					Uint64("current", generation).
					Str("event", r.event.Type()).
					Msg("Dropping superseded login outcome")
				continue
			}
			inFlight = false
			// the store re-checks the intent number when it applies the
			// outcome, in case a newer intent is already on its way here
			pending = append(pending, store.Outcome{Event: r.event, Intent: r.generation})

		case emit <- next:
			pending = pending[1:]
		}
	}
}

// call runs one login attempt and reports it on results. Panics from the
// authenticator become failures.
func (e *LoginEffect) call(ctx context.Context, generation uint64, intent store.LoginIntent, results chan<- result) {
	r := result{generation: generation}

	func() {
		defer func() {
			if p := recover(); p != nil {
				e.logger.Error().
					Interface("panic", p).
					Str("username", intent.Username).
					Msg("Authenticator panicked")
				r.event = store.LoginFailure{Err: fmt.Errorf("login panicked: %v", p)}
			}
		}()

		user, err := e.auth.Login(ctx, intent.Username, intent.Password)
		if err != nil {
			r.event = store.LoginFailure{Err: err}
			return
		}
		r.event = store.LoginSuccess{User: user}
	}()

	// a cancelled call has been superseded or the loop is gone
	select {
	case results <- r:
	case <-ctx.Done():
	}
}

func asIntent(ev store.Event) (store.LoginIntent, bool) {
	switch e := ev.(type) {
	case store.LoginIntent:
		return e, true
	case *store.LoginIntent:
		if e != nil {
			return *e, true
		}
	}
	return store.LoginIntent{}, false
}
