package store

// Reduce returns the state that follows s once ev is applied.
//
// Reduce never mutates s. Events it does not know about return s itself,
// not a copy. A nil s is treated as InitialState.
func Reduce(s *AuthState, ev Event) *AuthState {
	if s == nil {
		s = InitialState
	}

	switch e := ev.(type) {
	case LoginIntent:
		return &AuthState{Loading: true}
	case *LoginIntent:
		if e == nil {
			return s
		}
		return &AuthState{Loading: true}
	case LoginSuccess:
		return &AuthState{User: e.User}
	case *LoginSuccess:
		if e == nil {
			return s
		}
		return &AuthState{User: e.User}
	case LoginFailure:
		return loginFailed(s, e.Err)
	case *LoginFailure:
		if e == nil {
			return s
		}
		return loginFailed(s, e.Err)
	case Logout, *Logout:
		return InitialState
	default:
		return s
	}
}

// loginFailed keeps the current user; only loading and error change
func loginFailed(s *AuthState, err any) *AuthState {
	msg := ExtractErrorMessage(err)
	return &AuthState{
		User:    s.User,
		Loading: false,
		Error:   &msg,
	}
}
