package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) (*Issuer, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	issuer, err := NewIssuer("test-signing-secret", 15*time.Minute, 7*24*time.Hour, NewRedisStore(client))
	require.NoError(t, err)
	return issuer, mr
}

func testMetadata() Metadata {
	return Metadata{
		TelegramID: "1001",
		Username:   "danavries",
		FullName:   "Dana Vries",
		Role:       "admin",
	}
}

func TestIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Minute, time.Hour, nil)
	assert.Error(t, err)
}

func TestIssueRoundTrip(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	sess, err := issuer.Issue(context.Background(), testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "tg:1001", sess.Subject)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	claims, err := issuer.VerifyAccess(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tg:1001", claims.Subject)
	assert.Equal(t, "1001", claims.TelegramID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Dana Vries", claims.FullName)
}

func TestIssueIdempotentSubject(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	first, err := issuer.Issue(context.Background(), testMetadata())
	require.NoError(t, err)

	second, err := issuer.Issue(context.Background(), testMetadata())
	require.NoError(t, err)

	// Same external identity, same account. Tokens differ, subject never does.
	assert.Equal(t, first.Subject, second.Subject)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestVerifyAccessRejects(t *testing.T) {
	issuer, _ := newTestIssuer(t)
	sess, err := issuer.Issue(context.Background(), testMetadata())
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewIssuer("a-different-secret", time.Minute, time.Hour, nil)
		require.NoError(t, err)

		_, err = other.VerifyAccess(sess.AccessToken)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		issuer.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
		defer func() { issuer.now = time.Now }()

		_, err := issuer.VerifyAccess(sess.AccessToken)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.VerifyAccess("not.a.jwt")
		assert.Error(t, err)
	})
}

func TestRefreshRotation(t *testing.T) {
	issuer, _ := newTestIssuer(t)
	ctx := context.Background()

	sess, err := issuer.Issue(ctx, testMetadata())
	require.NoError(t, err)

	rotated, err := issuer.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sess.Subject, rotated.Subject)
	assert.Equal(t, sess.Metadata, rotated.Metadata)
	assert.NotEqual(t, sess.RefreshToken, rotated.RefreshToken)

	// Rotation is one-shot: the spent token no longer validates.
	_, err = issuer.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	// The rotated-in token does.
	_, err = issuer.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	_, err := issuer.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshExpiredInRedis(t *testing.T) {
	issuer, mr := newTestIssuer(t)
	ctx := context.Background()

	sess, err := issuer.Issue(ctx, testMetadata())
	require.NoError(t, err)

	mr.FastForward(8 * 24 * time.Hour)

	_, err = issuer.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRevoke(t *testing.T) {
	issuer, _ := newTestIssuer(t)
	ctx := context.Background()

	sess, err := issuer.Issue(ctx, testMetadata())
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(ctx, sess.RefreshToken))

	_, err = issuer.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	// Revoking again is a no-op.
	assert.NoError(t, issuer.Revoke(ctx, sess.RefreshToken))
}
