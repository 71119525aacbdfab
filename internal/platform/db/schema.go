package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedAdminEmail    = "admin@sac.com"
	seedAdminPassword = "admin123"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS assets (
		asset_id   CHAR(26)     NOT NULL,
		asset_name VARCHAR(255) NOT NULL,
		asset_tag  VARCHAR(64)  NOT NULL,
		location   VARCHAR(255) NOT NULL DEFAULT '',
		category   VARCHAR(255) NOT NULL DEFAULT '',
		status     VARCHAR(32)  NOT NULL DEFAULT 'Available',
		PRIMARY KEY (asset_id),
		KEY idx_assets_name (asset_name),
		KEY idx_assets_status (status)
	)`,
	`CREATE TABLE IF NOT EXISTS checkouts (
		checkout_id   CHAR(26)     NOT NULL,
		asset_id      CHAR(26)     NOT NULL,
		borrower_name VARCHAR(255) NOT NULL,
		borrower_id   VARCHAR(64)  NOT NULL,
		checkout_time DATETIME     NOT NULL,
		checkin_time  DATETIME     NULL,
		status        VARCHAR(32)  NOT NULL DEFAULT 'Checked Out',
		PRIMARY KEY (checkout_id),
		KEY idx_checkouts_asset (asset_id),
		KEY idx_checkouts_status (status),
		KEY idx_checkouts_time (checkout_time),
		CONSTRAINT fk_checkouts_asset FOREIGN KEY (asset_id)
			REFERENCES assets (asset_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		account_id    CHAR(26)     NOT NULL,
		first_name    VARCHAR(255) NOT NULL,
		last_name     VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'staff',
		PRIMARY KEY (account_id),
		UNIQUE KEY uq_accounts_email (email)
	)`,
}

// EnsureSchema creates missing tables and seeds the initial admin account.
// Safe to run on every startup.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return seedAdmin(ctx, conn)
}

// seedAdmin inserts the bootstrap admin if no admin account exists yet.
// The last-admin invariant assumes the system starts with at least one.
func seedAdmin(ctx context.Context, conn *sql.DB) error {
	var n int
	if err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role = 'admin'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), ulid.Monotonic(rand.Reader, 0)).String()
	_, err = conn.ExecContext(ctx, `
		INSERT INTO accounts (account_id, first_name, last_name, email, password_hash, role)
		VALUES (?, 'SAC', 'Admin', ?, ?, 'admin')`,
		id, seedAdminEmail, string(hash))
	return err
}
