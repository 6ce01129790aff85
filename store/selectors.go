package store

// SelectUser returns the authenticated user, or nil
func SelectUser(s *AuthState) *User {
	if s == nil {
		return nil
	}
	return s.User
}

// SelectLoading reports whether a login is in flight
func SelectLoading(s *AuthState) bool {
	return s != nil && s.Loading
}

// SelectError returns the last login error, or nil
func SelectError(s *AuthState) *string {
	if s == nil {
		return nil
	}
	return s.Error
}

// IsAuthenticated reports whether a user is logged in
func IsAuthenticated(s *AuthState) bool {
	return SelectUser(s) != nil
}
