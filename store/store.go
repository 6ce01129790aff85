package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Effect turns a stream of dispatched events into a stream of new events.
// The returned channel is closed once the effect has stopped.
//
// Events are delivered on in while the store holds its dispatch lock, so
// Run must keep receiving from in until ctx is done, also while output is
// waiting to be sent. Answers to a LoginIntent should be wrapped in an
// Outcome so the store can drop them once a newer intent has arrived.
type Effect interface {
	Run(ctx context.Context, in <-chan Event) <-chan Event
}

// Store owns the current AuthState and applies events to it
type Store struct {
	// dispatchMu serializes reduce, notify and delivery to effects so
	// subscribers and effects observe events in the order they were applied.
	dispatchMu sync.Mutex

	mu     sync.RWMutex
	state  *AuthState
	subs   []*subscription
	sinks  []*sink
	logger zerolog.Logger
}

type subscription struct {
	fn func(*AuthState)
}

type sink struct {
	ch   chan Event
	done <-chan struct{}
	// intents counts LoginIntents delivered on ch, guarded by dispatchMu
	intents uint64
}

// NewStore creates a store starting from initial (InitialState when nil)
func NewStore(initial *AuthState, logger zerolog.Logger) *Store {
	if initial == nil {
		initial = InitialState
	}
	return &Store{
		state:  initial,
		logger: logger,
	}
}

// State returns the current state
func (s *Store) State() *AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies ev and hands it to every running effect.
//
// Subscribers run synchronously inside Dispatch and must not call Dispatch
// themselves.
func (s *Store) Dispatch(ev Event) {
	if o, ok := ev.(Outcome); ok {
		ev = o.Event
	}
	s.dispatch(ev, nil)
}

// dispatch reduces ev, notifies subscribers and delivers ev to the effects,
// all under dispatchMu, so effects receive events in the order they were
// applied. A non-nil current is checked under the same lock and ev is
// dropped when it reports false.
func (s *Store) dispatch(ev Event, current func() bool) {
	if ev == nil {
		return
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if current != nil && !current() {
		s.logger.Debug().
			Str("event", ev.Type()).
			Msg("Dropping superseded effect outcome")
		return
	}

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, ev)
	s.state = next
	subs := append([]*subscription(nil), s.subs...)
	sinks := append([]*sink(nil), s.sinks...)
	s.mu.Unlock()

	s.logger.Debug().
		Str("event", ev.Type()).
		Bool("changed", next != prev).
		Msg("Dispatched event")

	if next != prev {
		for _, sub := range subs {
			sub.fn(next)
		}
	}

	intent := isIntent(ev)
	for _, sk := range sinks {
		if intent {
			sk.intents++
		}
		select {
		case sk.ch <- ev:
		case <-sk.done:
		}
	}
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(*AuthState)) (unsubscribe func()) {
	sub := &subscription{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, other := range s.subs {
				if other == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// RunEffect starts effect and feeds its output back into the store until
// ctx is done. The returned channel is closed once the effect has stopped
// and all of its output has been dispatched.
func (s *Store) RunEffect(ctx context.Context, effect Effect) <-chan struct{} {
	sk := &sink{
		ch:   make(chan Event),
		done: ctx.Done(),
	}

	s.mu.Lock()
	s.sinks = append(s.sinks, sk)
	s.mu.Unlock()

	out := effect.Run(ctx, sk.ch)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer s.removeSink(sk)

		for ev := range out {
			o, ok := ev.(Outcome)
			if !ok {
				s.dispatch(ev, nil)
				continue
			}
			s.dispatch(o.Event, func() bool { return sk.intents == o.Intent })
		}
	}()

	return stopped
}

func (s *Store) removeSink(sk *sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.sinks {
		if other == sk {
			s.sinks = append(s.sinks[:i:i], s.sinks[i+1:]...)
			return
		}
	}
}

// WaitFor blocks until the current state satisfies pred or ctx is done
func (s *Store) WaitFor(ctx context.Context, pred func(*AuthState) bool) (*AuthState, error) {
	matched := make(chan *AuthState, 1)
	unsubscribe := s.Subscribe(func(st *AuthState) {
		if pred(st) {
			select {
			case matched <- st:
			default:
			}
		}
	})
	defer unsubscribe()

	if st := s.State(); pred(st) {
		return st, nil
	}

	select {
	case st := <-matched:
		return st, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
