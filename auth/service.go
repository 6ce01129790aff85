// Package auth provides the mocked authentication backend used by the
// login flow. It simulates network latency and checks credentials against
// a table of bcrypt password hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/s0up4200/marquee/store"
)

// DefaultDelay is the simulated round trip of a login call
const DefaultDelay = time.Second

const (
	defaultUsername = "user"
	defaultPassword = "pass"
	// every successful login gets the same id
	userID = "1"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
var ErrInvalidCredentials = errors.New("Invalid credentials")

// Service is a fake remote login endpoint
type Service struct {
	delay  time.Duration
	users  map[string][]byte
	logger zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithUsers replaces the credential table. Values are bcrypt hashes. An
// empty table keeps the default account.
func WithUsers(users map[string]string) Option {
	return func(s *Service) {
		if len(users) == 0 {
			return
		}
		s.users = make(map[string][]byte, len(users))
		for name, hash := range users {
			s.users[name] = []byte(hash)
		}
	}
}

// NewService creates a Service. Without WithUsers the only valid account
// is user/pass.
func NewService(logger zerolog.Logger, opts ...Option) (*Service, error) {
	s := &Service{
		delay:  DefaultDelay,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.users == nil {
		hash, err := HashPassword(defaultPassword)
		if err != nil {
			return nil, err
		}
		s.users = map[string][]byte{defaultUsername: []byte(hash)}
	}

	for name, hash := range s.users {
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("invalid password hash for %q: %w", name, err)
		}
	}

	return s, nil
}

// Login waits for the simulated latency, then checks the credentials.
// It makes exactly one attempt.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	hash, ok := s.users[username]
	if !ok {
		s.logger.Debug().Str("username", username).Msg("Login rejected: unknown user")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		s.logger.Debug().Str("username", username).Msg("Login rejected: wrong password")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("username", username).Msg("Login accepted")
	return &store.User{ID: userID, Name: username}, nil
}

// HashPassword returns a bcrypt hash suitable for WithUsers
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
