package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/geminitwinsolutions/doobie-division-app/internal/auth"
)

// AccessClaims is the JWT payload of an access token. Identity metadata
// rides along so request handlers never need a registry lookup.
type AccessClaims struct {
	TelegramID string `json:"tg_id"`
	Username   string `json:"username,omitempty"`
	FullName   string `json:"name,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints access/refresh token pairs for verified, authorized
// identities. Access tokens are short-lived HS256 JWTs; refresh tokens are
// opaque 256-bit values stored hashed with a TTL.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      Store
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, store Store) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("session: signing secret is required")
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
		now:        time.Now,
	}, nil
}

// Issue mints a fresh token pair. The subject is derived from the external
// id, so logging in twice reuses the same account identity.
func (i *Issuer) Issue(ctx context.Context, md Metadata) (*Session, error) {
	if md.TelegramID == "" {
		return nil, fmt.Errorf("%w: missing telegram id", auth.ErrSessionIssuance)
	}

	subject := SubjectFor(md.TelegramID)
	now := i.now()
	expiresAt := now.Add(i.accessTTL)

	claims := AccessClaims{
		TelegramID: md.TelegramID,
		Username:   md.Username,
		FullName:   md.FullName,
		Role:       md.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrSessionIssuance, err)
	}

	refreshToken, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrSessionIssuance, err)
	}

	rec := RefreshRecord{
		Subject:   subject,
		Metadata:  md,
		ExpiresAt: now.Add(i.refreshTTL).Unix(),
	}
	if err := i.store.Save(ctx, hashToken(refreshToken), rec, i.refreshTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrSessionIssuance, err)
	}

	return &Session{
		Subject:      subject,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Metadata:     md,
	}, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a
// new pair is minted for the same identity. A token can be rotated once.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	rec, err := i.store.Take(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrSessionIssuance, err)
	}
	if rec == nil || i.now().Unix() > rec.ExpiresAt {
		return nil, ErrRefreshInvalid
	}

	return i.Issue(ctx, rec.Metadata)
}

// Revoke discards a refresh token. Idempotent.
func (i *Issuer) Revoke(ctx context.Context, refreshToken string) error {
	return i.store.Delete(ctx, hashToken(refreshToken))
}

// VerifyAccess parses and validates an access token.
func (i *Issuer) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ErrRefreshInvalid covers unknown, already-rotated, and expired refresh
// tokens alike, so callers cannot distinguish the three.
var ErrRefreshInvalid = errors.New("invalid refresh token")

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
