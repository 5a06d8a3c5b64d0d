package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
)

type memUserRepo struct {
	users map[string]domain.User
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

type memSessionRepo struct {
	sessions map[string]domain.Session
}

func (r *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) Extend(_ context.Context, id string, ttl time.Duration) error {
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(ttl)
	r.sessions[id] = s
	return nil
}

func newUseCase() (*UseCase, *memSessionRepo) {
	users := &memUserRepo{users: map[string]domain.User{
		"user-1": {ID: "user-1", Status: "active"},
	}}
	sessions := &memSessionRepo{sessions: make(map[string]domain.Session)}
	uc := New(users, sessions, TokenConfig{Secret: "test-secret", Issuer: "taskdeck"}, nil)
	return uc, sessions
}

func TestLoginIssuesSessionAndToken(t *testing.T) {
	uc, sessions := newUseCase()

	session, token, err := uc.Login(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user-1", session.UserID)
	assert.Contains(t, sessions.sessions, session.ID)

	parsed, err := jwt.Parse(token, func(_ *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, session.ID, claims["session_id"])
	assert.Equal(t, "taskdeck", claims["iss"])
}

func TestLoginUnknownUser(t *testing.T) {
	uc, _ := newUseCase()

	_, _, err := uc.Login(context.Background(), "ghost", time.Hour)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetSessionExpired(t *testing.T) {
	uc, sessions := newUseCase()
	sessions.sessions["stale"] = domain.Session{
		ID:        "stale",
		UserID:    "user-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := uc.GetSession(context.Background(), "stale")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NotContains(t, sessions.sessions, "stale")
}

func TestRefreshSession(t *testing.T) {
	uc, _ := newUseCase()

	session, _, err := uc.Login(context.Background(), "user-1", time.Minute)
	require.NoError(t, err)

	refreshed, token, err := uc.RefreshSession(context.Background(), session.ID, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, refreshed.ExpiresAt.After(time.Now().Add(30*time.Minute)))
}
