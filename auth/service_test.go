package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/store"
)

func TestService_Login(t *testing.T) {
	svc, err := NewService(zerolog.Nop(), WithDelay(0))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantUser *store.User
		wantErr  error
	}{
		{"valid credentials", "user", "pass", &store.User{ID: "1", Name: "user"}, nil},
		{"wrong password", "user", "nope", nil, ErrInvalidCredentials},
		{"unknown user", "x", "y", nil, ErrInvalidCredentials},
		{"case sensitive username", "User", "pass", nil, ErrInvalidCredentials},
		{"empty", "", "", nil, ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Invalid credentials", err.Error())
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestService_LoginWaitsForDelay(t *testing.T) {
	svc, err := NewService(zerolog.Nop(), WithDelay(30*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.Login(context.Background(), "user", "pass")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestService_LoginCancelled(t *testing.T) {
	svc, err := NewService(zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Login(ctx, "user", "pass")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_CustomUsers(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	svc, err := NewService(zerolog.Nop(), WithDelay(0), WithUsers(map[string]string{"neo": hash}))
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "neo", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "neo", user.Name)

	_, err = svc.Login(context.Background(), "user", "pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewService_RejectsInvalidHash(t *testing.T) {
	_, err := NewService(zerolog.Nop(), WithUsers(map[string]string{"neo": "plaintext"}))
	assert.Error(t, err)
}

func TestService_EmptyUsersKeepsDefault(t *testing.T) {
	svc, err := NewService(zerolog.Nop(), WithDelay(0), WithUsers(nil))
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "user", "pass")
	require.NoError(t, err)
	assert.Equal(t, "user", user.Name)
}
