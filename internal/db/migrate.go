package db

import (
	"context"
	"database/sql"
)

type DB struct {
	*sql.DB
}

const keystoneMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS admins (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    telegram_id text NOT NULL,
    telegram_username text,
    full_name text,
    role text NOT NULL DEFAULT 'admin',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT admins_telegram_id_unique UNIQUE (telegram_id),
    CONSTRAINT admins_role_check CHECK (role IN ('admin', 'super_admin', 'driver'))
);

CREATE TABLE IF NOT EXISTS orders (
    id bigserial PRIMARY KEY,
    customer_name text NOT NULL,
    customer_address text NOT NULL,
    delivery_area text NOT NULL DEFAULT 'Other',
    total_price numeric(10,2) NOT NULL DEFAULT 0,
    status text NOT NULL DEFAULT 'pending',
    assigned_driver uuid REFERENCES admins(id),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS orders_status_idx
ON orders (status);

CREATE INDEX IF NOT EXISTS orders_delivery_area_idx
ON orders (delivery_area);
`

func RunKeystoneMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, keystoneMigration)
	return err
}
