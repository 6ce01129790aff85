package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownEvent struct{}

func (unknownEvent) Type() string { return "[Other] Something" }

func strPtr(s string) *string { return &s }

func sampleStates() []*AuthState {
	return []*AuthState{
		InitialState,
		{Loading: true},
		{User: &User{ID: "1", Name: "user"}},
		{Error: strPtr("boom")},
		{User: &User{ID: "2", Name: "other"}, Error: strPtr("stale")},
	}
}

func TestReduce_UnknownEventReturnsSameState(t *testing.T) {
	for _, st := range sampleStates() {
		assert.Same(t, st, Reduce(st, unknownEvent{}))
		assert.Same(t, st, Reduce(st, nil))
	}
}

func TestReduce_LoginIntent(t *testing.T) {
	for _, st := range sampleStates() {
		next := Reduce(st, LoginIntent{Username: "someone", Password: "secret"})

		require.NotSame(t, st, next)
		assert.Nil(t, next.User)
		assert.True(t, next.Loading)
		assert.Nil(t, next.Error)
	}
}

func TestReduce_LoginSuccess(t *testing.T) {
	user := &User{ID: "1", Name: "user"}
	prev := &AuthState{Loading: true}

	next := Reduce(prev, LoginSuccess{User: user})

	assert.Same(t, user, next.User)
	assert.False(t, next.Loading)
	assert.Nil(t, next.Error)
	assert.True(t, prev.Loading, "previous state must not be mutated")
}

func TestReduce_LoginFailureKeepsUser(t *testing.T) {
	user := &User{ID: "1", Name: "user"}

	tests := []struct {
		name    string
		prev    *AuthState
		err     any
		wantMsg string
	}{
		{
			name:    "error value",
			prev:    &AuthState{User: user, Loading: true},
			err:     errors.New("Invalid credentials"),
			wantMsg: "Invalid credentials",
		},
		{
			name:    "no user",
			prev:    &AuthState{Loading: true},
			err:     "plain string",
			wantMsg: "plain string",
		},
		{
			name:    "nil error",
			prev:    &AuthState{User: user},
			err:     nil,
			wantMsg: "Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Reduce(tt.prev, LoginFailure{Err: tt.err})

			assert.Same(t, tt.prev.User, next.User)
			assert.False(t, next.Loading)
			require.NotNil(t, next.Error)
			assert.Equal(t, tt.wantMsg, *next.Error)
		})
	}
}

func TestReduce_LogoutReturnsInitialState(t *testing.T) {
	for _, st := range sampleStates() {
		assert.Same(t, InitialState, Reduce(st, Logout{}))
	}
	assert.Same(t, InitialState, Reduce(&AuthState{Loading: true}, &Logout{}))
}

func TestReduce_PointerEvents(t *testing.T) {
	user := &User{ID: "1", Name: "user"}

	next := Reduce(InitialState, &LoginIntent{Username: "user", Password: "pass"})
	assert.True(t, next.Loading)

	next = Reduce(next, &LoginSuccess{User: user})
	assert.Same(t, user, next.User)

	var nilIntent *LoginIntent
	assert.Same(t, next, Reduce(next, nilIntent))
}

func TestReduce_NilStateIsInitial(t *testing.T) {
	assert.Same(t, InitialState, Reduce(nil, unknownEvent{}))
}

func TestEventTypes(t *testing.T) {
	assert.Equal(t, "[Auth] Login", LoginIntent{}.Type())
	assert.Equal(t, "[Auth] Login Success", LoginSuccess{}.Type())
	assert.Equal(t, "[Auth] Login Failure", LoginFailure{}.Type())
	assert.Equal(t, "[Auth] Logout", Logout{}.Type())
	assert.NotContains(t, LoginIntent{Username: "user", Password: "hunter2"}.String(), "hunter2")
}
