// Package postgres implements storage.Accounts on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "postgres")

const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_email_lower ON accounts(LOWER(email))`,
}

type pg struct {
	ext sqlx.ExtContext
}

// New returns a storage.Accounts over db.
func New(db *sqlx.DB) storage.Accounts {
	return pg{ext: db}
}

// InitTables creates the tables if they don't exist.
func InitTables(ctx context.Context, db *sqlx.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	log.Info("tables initialized")
	return nil
}

func (s pg) CreateAccount(ctx context.Context, a *storage.Account) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	_, err := sqlx.NamedExecContext(ctx, s.ext, `
		INSERT INTO accounts (id, user_id, email, password_hash, created_at)
		VALUES (:id, :user_id, :email, :password_hash, :created_at)
	`, a)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

func (s pg) GetAccountByEmail(ctx context.Context, email string) (*storage.Account, error) {
	var a storage.Account
	err := sqlx.GetContext(ctx, s.ext, &a, `
		SELECT id, user_id, email, password_hash, created_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}
