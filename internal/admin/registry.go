package admin

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleDriver     Role = "driver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleDriver:
		return true
	}
	return false
}

// Record is one provisioned back-office identity, keyed by Telegram user id.
type Record struct {
	ID         string    `json:"id"`
	TelegramID string    `json:"telegram_id"`
	Username   string    `json:"telegram_username"`
	FullName   string    `json:"full_name"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

var (
	ErrNotFound      = errors.New("admin not found")
	ErrAlreadyExists = errors.New("admin already exists")
)

// Registry is the authorization gate for the login flow and the backing
// store for the admin management screens. Lookup must be keyed on the
// verified external id only, never on a client-supplied field.
type Registry interface {
	Lookup(ctx context.Context, telegramID string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Drivers(ctx context.Context) ([]Record, error)
	Add(ctx context.Context, rec Record) (*Record, error)
	Remove(ctx context.Context, telegramID string) error
}
