package jwtsession

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestStore(t *testing.T) (*Store, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s, err := NewStore(testSecret, WithClock(mock))
	require.NoError(t, err)
	return s, mock
}

func testSession(now time.Time) domainauth.Session {
	return domainauth.Session{
		ID:           "sess-1",
		UserID:       "100000000000000001",
		Username:     "rookie",
		DisplayName:  "Rookie",
		Email:        "rookie@example.com",
		AvatarURL:    "https://cdn.discordapp.com/avatars/100000000000000001/abc.png",
		IsAuthorized: true,
		IssuedAt:     now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
}

func TestNewStore_ShortSecret(t *testing.T) {
	_, err := NewStore("too-short")
	require.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()
	sess := testSession(mock.Now())

	token, err := s.Save(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	got, err := s.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.DisplayName, got.DisplayName)
	assert.Equal(t, sess.AvatarURL, got.AvatarURL)
	assert.True(t, got.IsAuthorized)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))
	assert.True(t, sess.IssuedAt.Equal(got.IssuedAt))
}

func TestStore_Expired(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	token, err := s.Save(ctx, testSession(mock.Now()))
	require.NoError(t, err)

	mock.Add(25 * time.Hour)

	_, err = s.Get(ctx, token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestStore_RejectsTampering(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	token, err := s.Save(ctx, testSession(mock.Now()))
	require.NoError(t, err)

	other, err := NewStore("fedcba9876543210fedcba9876543210", WithClock(mock))
	require.NoError(t, err)
	_, err = other.Get(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Get(ctx, token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStore_RejectsForeignIssuerAndAlg(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "sess-1",
		Subject:   "100000000000000001",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(mock.Now().Add(time.Hour)),
	}}
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Get(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims.Issuer = Issuer
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Get(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStore_SaveValidation(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	sess := testSession(mock.Now())
	sess.ID = ""
	_, err := s.Save(ctx, sess)
	require.Error(t, err)

	sess = testSession(mock.Now())
	sess.UserID = ""
	_, err = s.Save(ctx, sess)
	require.Error(t, err)

	sess = testSession(mock.Now())
	sess.ExpiresAt = mock.Now()
	_, err = s.Save(ctx, sess)
	require.Error(t, err)
}

func TestStore_DeleteIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "anything"))
}
