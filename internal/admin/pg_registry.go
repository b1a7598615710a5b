package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/geminitwinsolutions/doobie-division-app/internal/db"
)

// PGRegistry is the canonical registry backed by the admins table.
type PGRegistry struct {
	db *db.DB
}

func NewPGRegistry(db *db.DB) *PGRegistry {
	return &PGRegistry{db: db}
}

func (r *PGRegistry) Lookup(ctx context.Context, telegramID string) (*Record, error) {
	var rec Record
	err := r.db.QueryRowContext(ctx, `
		SELECT id, telegram_id, COALESCE(telegram_username, ''),
		       COALESCE(full_name, ''), role, created_at
		FROM admins
		WHERE telegram_id = $1
	`, telegramID).Scan(
		&rec.ID,
		&rec.TelegramID,
		&rec.Username,
		&rec.FullName,
		&rec.Role,
		&rec.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *PGRegistry) List(ctx context.Context) ([]Record, error) {
	return r.query(ctx, `
		SELECT id, telegram_id, COALESCE(telegram_username, ''),
		       COALESCE(full_name, ''), role, created_at
		FROM admins
		ORDER BY role = 'super_admin' DESC, created_at ASC
	`)
}

func (r *PGRegistry) Drivers(ctx context.Context) ([]Record, error) {
	return r.query(ctx, `
		SELECT id, telegram_id, COALESCE(telegram_username, ''),
		       COALESCE(full_name, ''), role, created_at
		FROM admins
		WHERE role = 'driver'
		ORDER BY created_at ASC
	`)
}

func (r *PGRegistry) Add(ctx context.Context, rec Record) (*Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (telegram_id, telegram_username, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		rec.TelegramID,
		rec.Username,
		rec.FullName,
		rec.Role,
	).Scan(&rec.ID, &rec.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *PGRegistry) Remove(ctx context.Context, telegramID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM admins
		WHERE telegram_id = $1
	`, telegramID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PGRegistry) query(ctx context.Context, stmt string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.TelegramID,
			&rec.Username,
			&rec.FullName,
			&rec.Role,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
