// Package store holds the authentication state of marquee and the machinery
// that changes it.
//
// State is never mutated in place. Every event is run through Reduce, which
// returns either the same *AuthState (nothing changed) or a freshly
// allocated one, so subscribers can detect changes with a pointer
// comparison.
//
// # Usage
//
//	s := store.NewStore(store.InitialState, logger)
//	s.RunEffect(ctx, effects.NewLoginEffect(authService, logger))
//
//	s.Dispatch(store.LoginIntent{Username: "user", Password: "pass"})
//	st, err := s.WaitFor(ctx, func(st *store.AuthState) bool { return !st.Loading })
//
// Side effects (calling the authentication service) live outside the
// reducer, in effects that read dispatched events and emit outcome events
// back into the store.
package store
