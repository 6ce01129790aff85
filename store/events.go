package store

// Event type tags
const (
	TypeLogin        = "[Auth] Login"
	TypeLoginSuccess = "[Auth] Login Success"
	TypeLoginFailure = "[Auth] Login Failure"
	TypeLogout       = "[Auth] Logout"
)

// Event is an immutable record dispatched to the store.
// The set of auth events is closed; foreign implementations are accepted by
// Reduce but leave the state untouched.
type Event interface {
	Type() string
}

// LoginIntent asks for a login with the given credentials
type LoginIntent struct {
	Username string
	Password string
}

// LoginSuccess carries the user returned by a successful login
type LoginSuccess struct {
	User *User
}

// LoginFailure carries the raw error of a failed login. Err is kept as-is;
// Reduce turns it into a message.
type LoginFailure struct {
	Err any
}

// Logout resets the auth state
type Logout struct{}

func (LoginIntent) Type() string  { return TypeLogin }
func (LoginSuccess) Type() string { return TypeLoginSuccess }
func (LoginFailure) Type() string { return TypeLoginFailure }
func (Logout) Type() string       { return TypeLogout }

// String hides the password when an intent ends up in a log line
func (e LoginIntent) String() string {
	return TypeLogin + " " + e.Username
}

// Outcome is an effect's answer to the n-th LoginIntent the effect
// received, counting from 1. RunEffect applies Event only while no newer
// intent has been delivered to that effect. Dispatch applies it as is.
type Outcome struct {
	Event  Event
	Intent uint64
}

func (o Outcome) Type() string {
	if o.Event == nil {
		return ""
	}
	return o.Event.Type()
}

func isIntent(ev Event) bool {
	switch e := ev.(type) {
	case LoginIntent:
		return true
	case *LoginIntent:
		return e != nil
	}
	return false
}
