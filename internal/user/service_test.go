package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewInMemoryRepository(nil), "test-secret", NewMemoryLockout(3, 30*time.Minute))
	_, err := svc.Register(context.Background(), User{Email: "Ana@Example.com", Password: "s3cret", FirstName: "Ana", LastName: "Lima"})
	require.NoError(t, err)
	return svc
}

func TestRegister_HashesAndRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.repo.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.Password)

	_, err = svc.Register(context.Background(), User{Email: "ANA@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", u.DisplayName())

	_, err = svc.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_LocksOutAfterRepeatedFailures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "ana@example.com", "bad1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ana@example.com", "bad2")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ana@example.com", "bad3")
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 30*time.Minute, locked.RetryAfter)

	// the right password does not help while locked
	_, err = svc.Authenticate(ctx, "ana@example.com", "s3cret")
	assert.True(t, errors.As(err, &locked))
}

func TestAuthenticate_SuccessResetsCounter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _ = svc.Authenticate(ctx, "ana@example.com", "bad")
	_, _ = svc.Authenticate(ctx, "ana@example.com", "bad")
	_, err := svc.Authenticate(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ana@example.com", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueToken(t *testing.T) {
	svc := newTestService(t)
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	signed, err := svc.IssueToken(User{ID: 9, Email: "ana@example.com", FirstName: "Ana", LastName: "Lima"})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil },
		jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	assert.Equal(t, float64(9), claims["user_id"])
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, "Ana Lima", claims["name"])
	assert.Equal(t, float64(fixed.Add(72*time.Hour).Unix()), claims["exp"])
}
