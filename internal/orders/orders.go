package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geminitwinsolutions/doobie-division-app/internal/db"
	"github.com/geminitwinsolutions/doobie-division-app/internal/logger"
)

const (
	StatusPending  = "pending"
	StatusAssigned = "assigned"
)

// Order models a delivery only to the depth assignment needs. Line items
// and pricing live with the storefront, not here.
type Order struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerAddress string    `json:"customer_address"`
	DeliveryArea    string    `json:"delivery_area"`
	TotalPrice      float64   `json:"total_price"`
	Status          string    `json:"status"`
	AssignedDriver  string    `json:"assigned_driver,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrNotFound   = errors.New("order not found")
	ErrNotPending = errors.New("order is not pending")
	ErrNotDriver  = errors.New("assignee is not a driver")
)

// Notifier delivers a message to a chat. Satisfied by notify.BotClient.
type Notifier interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

type Service struct {
	db       *db.DB
	notifier Notifier
}

func NewService(db *db.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// List returns orders newest first, optionally filtered by delivery area
// and status.
func (s *Service) List(ctx context.Context, area, status string) ([]Order, error) {
	query := `
		SELECT id, customer_name, customer_address, delivery_area,
		       total_price, status, COALESCE(assigned_driver::text, ''), created_at
		FROM orders
	`
	var (
		conds []string
		args  []any
	)
	if area != "" {
		args = append(args, area)
		conds = append(conds, fmt.Sprintf("delivery_area = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerAddress,
			&o.DeliveryArea,
			&o.TotalPrice,
			&o.Status,
			&o.AssignedDriver,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// Assign hands a pending order to a driver and flips it to assigned.
// The status check lives in the UPDATE itself so two concurrent
// assignments cannot both win.
func (s *Service) Assign(ctx context.Context, orderID int64, driverID string) (*Order, error) {

	// The assignee must be provisioned with the driver role.
	var driverChatID string
	err := s.db.QueryRowContext(ctx, `
		SELECT telegram_id FROM admins
		WHERE id = $1 AND role = 'driver'
	`, driverID).Scan(&driverChatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotDriver
	}
	if err != nil {
		return nil, err
	}

	var o Order
	err = s.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = 'assigned', assigned_driver = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, customer_name, customer_address, delivery_area,
		          total_price, status, assigned_driver::text, created_at
	`, orderID, driverID).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerAddress,
		&o.DeliveryArea,
		&o.TotalPrice,
		&o.Status,
		&o.AssignedDriver,
		&o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.classifyAssignFailure(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}

	// Best effort: a failed notification must not roll back the assignment.
	if s.notifier != nil {
		text := fmt.Sprintf("New delivery: order #%d, %s (%s)",
			o.ID, o.CustomerAddress, o.DeliveryArea)
		if err := s.notifier.SendMessage(ctx, driverChatID, text); err != nil {
			logger.Warn("driver notification failed", map[string]any{
				"order_id": o.ID,
				"error":    err.Error(),
			})
		}
	}

	return &o, nil
}

func (s *Service) classifyAssignFailure(ctx context.Context, orderID int64) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
	`, orderID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNotPending
}
