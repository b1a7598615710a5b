package session

import (
	"context"
	"time"
)

// RefreshRecord is what the store keeps per outstanding refresh token.
// The token itself is never stored; only its SHA-256 digest keys the record.
type RefreshRecord struct {
	Subject   string   `json:"subject"`
	Metadata  Metadata `json:"metadata"`
	ExpiresAt int64    `json:"expires_at"`
}

// Store defines how refresh tokens are persisted and consumed.
// Take must be one-shot: a record handed out once is gone, which makes
// rotation safe against concurrent reuse of the same token.
type Store interface {
	Save(ctx context.Context, tokenHash string, rec RefreshRecord, ttl time.Duration) error
	Take(ctx context.Context, tokenHash string) (*RefreshRecord, error)
	Delete(ctx context.Context, tokenHash string) error
}
