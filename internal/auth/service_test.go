package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestService(t *testing.T) (*Service, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	_, err := repo.Create(context.Background(), "admin@refineplasticsurgerytz.com", "Clinic Admin", "correct horse battery staple")
	require.NoError(t, err)
	return NewService(repo, testSecret, 8*time.Hour, nil, nil), repo
}

func TestSignInSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	session, err := svc.SignIn(context.Background(), "admin@refineplasticsurgerytz.com", "correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin@refineplasticsurgerytz.com", session.User.Email)
	assert.Empty(t, session.User.PasswordHash, "hash must not serialize")

	claims, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@refineplasticsurgerytz.com", claims.Email)
	assert.Equal(t, "Clinic Admin", claims.Name)
}

func TestSignInNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SignIn(context.Background(), "  Admin@RefinePlasticSurgeryTZ.com ", "correct horse battery staple")
	assert.NoError(t, err)
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SignIn(context.Background(), "admin@refineplasticsurgerytz.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmailSameError(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown email must be indistinguishable from a wrong password")
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestService(t)
	session, err := svc.SignIn(context.Background(), "admin@refineplasticsurgerytz.com", "correct horse battery staple")
	require.NoError(t, err)

	_, err = svc.Verify(session.Token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(NewInMemoryRepository(), "different-secret", 8*time.Hour, nil, nil)
	_, err = other.Verify(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	session, err := svc.SignIn(context.Background(), "admin@refineplasticsurgerytz.com", "correct horse battery staple")
	require.NoError(t, err)

	now = now.Add(9 * time.Hour)
	_, err = svc.Verify(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignInPublishesSessionEvent(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Create(context.Background(), "admin@refineplasticsurgerytz.com", "Clinic Admin", "pw12345678")
	require.NoError(t, err)

	broadcaster := NewBroadcaster(nil)
	events, cancel := broadcaster.Subscribe()
	defer cancel()

	svc := NewService(repo, testSecret, time.Hour, broadcaster, nil)
	session, err := svc.SignIn(context.Background(), "admin@refineplasticsurgerytz.com", "pw12345678")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventSignedIn, ev.Type)
		assert.Equal(t, "admin@refineplasticsurgerytz.com", ev.Email)
	default:
		t.Fatal("no event published on sign-in")
	}

	claims, err := svc.Verify(session.Token)
	require.NoError(t, err)
	svc.SignOut(context.Background(), claims)

	select {
	case ev := <-events:
		assert.Equal(t, EventSignedOut, ev.Type)
	default:
		t.Fatal("no event published on sign-out")
	}
}
