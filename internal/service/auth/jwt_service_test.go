package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/marketplace-api/internal/config"
)

const testSecret = "test-jwt-secret-thirty-two-chars!!"

// newTestService builds an hmacJWTService with a controllable clock.
func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	impl.timeFunc = func() time.Time { return now }
	return impl
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   "too-short",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)
	ctx := context.Background()
	accountID := uuid.New()

	token, err := svc.GenerateToken(ctx, accountID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, accountID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, now.Add(15*time.Minute), claims.ExpiresAt, time.Second)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	ctx := context.Background()
	accountID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, accountID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateTokenRejectsWrongType(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	ctx := context.Background()
	accountID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(ctx, accountID)
	require.NoError(t, err)
	access, err := svc.GenerateToken(ctx, accountID)
	require.NoError(t, err)

	// A refresh token must not pass as an access token, and vice versa.
	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	issued := time.Now()
	svc := newTestService(t, issued)
	ctx := context.Background()

	access, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	// Jump past both lifetimes plus the clock skew allowance.
	svc.timeFunc = func() time.Time { return issued.Add(25 * time.Hour) }

	_, err = svc.ValidateToken(ctx, access)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = svc.ValidateRefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	issued := time.Now()
	svc := newTestService(t, issued)
	ctx := context.Background()

	access, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// One minute past expiry is still inside the two-minute skew window.
	svc.timeFunc = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = svc.ValidateToken(ctx, access)
	assert.NoError(t, err)
}

func TestValidateTokenTampered(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.ValidateToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	other := newTestService(t, time.Now())
	other.signingKey = []byte("another-secret-also-32-characters!")
	ctx := context.Background()

	token, err := other.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshFlowIssuesNewAccessToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)
	ctx := context.Background()
	accountID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(ctx, accountID)
	require.NoError(t, err)

	// Long after the original access token would have died, the refresh
	// token still validates and identifies the account.
	svc.timeFunc = func() time.Time { return now.Add(2 * time.Hour) }

	claims, err := svc.ValidateRefreshToken(ctx, refresh)
	require.NoError(t, err)

	access, err := svc.GenerateToken(ctx, claims.AccountID)
	require.NoError(t, err)

	got, err := svc.ValidateToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, accountID, got.AccountID)
}
