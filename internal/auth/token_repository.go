package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository persists one-time codes.
type TokenRepository interface {
	// Replace removes every unused token for token.Phone and stores token, as
	// one unit.
	Replace(ctx context.Context, token AuthToken) error
	// Redeem marks the matching unused, unexpired token as used at now and
	// returns it. At most one caller can redeem a given token; everyone else
	// gets ErrTokenNotFound.
	Redeem(ctx context.Context, phone, code string, now time.Time) (AuthToken, error)
	// Delete removes a token by id.
	Delete(ctx context.Context, id string) error
}

// PostgresTokenRepository implements TokenRepository using PostgreSQL.
type PostgresTokenRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTokenRepository builds a Postgres-backed token store.
func NewPostgresTokenRepository(db *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{db: db}
}

// Replace runs delete-unused and insert in one transaction, serialized per
// phone with an advisory lock.
func (r *PostgresTokenRepository) Replace(ctx context.Context, token AuthToken) error {
	id, err := uuid.Parse(token.ID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, token.Phone); err != nil {
		return fmt.Errorf("lock phone: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM auth_tokens WHERE phone = $1 AND used_at IS NULL`, token.Phone); err != nil {
		return fmt.Errorf("delete unused tokens: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO auth_tokens (id, phone, code, role, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		id, token.Phone, token.Code, token.Role, token.CreatedAt.UTC(), token.ExpiresAt.UTC()); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	return tx.Commit(ctx)
}

// Redeem is a single conditional update; a concurrent redeemer blocks on the
// row lock and then matches zero rows.
func (r *PostgresTokenRepository) Redeem(ctx context.Context, phone, code string, now time.Time) (AuthToken, error) {
	row := r.db.QueryRow(ctx, `UPDATE auth_tokens SET used_at = $3
        WHERE phone = $1 AND code = $2 AND used_at IS NULL AND expires_at > $3
        RETURNING id, phone, code, role, created_at, expires_at, used_at`, phone, code, now.UTC())

	var (
		id    uuid.UUID
		token AuthToken
	)
	if err := row.Scan(&id, &token.Phone, &token.Code, &token.Role, &token.CreatedAt, &token.ExpiresAt, &token.UsedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthToken{}, ErrTokenNotFound
		}
		return AuthToken{}, err
	}
	token.ID = id.String()
	return token, nil
}

// Delete removes a token.
func (r *PostgresTokenRepository) Delete(ctx context.Context, id string) error {
	tokenID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM auth_tokens WHERE id = $1`, tokenID)
	return err
}
