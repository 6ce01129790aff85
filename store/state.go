package store

// User is the authenticated account
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthState is the authentication slice of the application state.
// Values are shared between readers and must be treated as read-only.
type AuthState struct {
	User    *User   `json:"user"`
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
}

// InitialState is the state at process start and after logout
var InitialState = &AuthState{}

// IsInitial reports whether the state carries no user, no error and no
// pending login.
func (s *AuthState) IsInitial() bool {
	return s == nil || (s.User == nil && !s.Loading && s.Error == nil)
}

// ErrorMessage returns the error message or an empty string
func (s *AuthState) ErrorMessage() string {
	if s == nil || s.Error == nil {
		return ""
	}
	return *s.Error
}
