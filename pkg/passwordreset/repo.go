package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoPendingReset = errors.New("no pending reset for this email")

type ResetRepository interface {
	CreateReset(ctx context.Context, email, codeHash string, expiresAt time.Time) (Reset, error)
	CountSince(ctx context.Context, email string, since time.Time) (int, error)
	LatestPending(ctx context.Context, email string) (Reset, error)
	MarkUsed(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) error
}

type postgresResetRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresResetRepository(pool *pgxpool.Pool) ResetRepository {
	return &postgresResetRepository{pool: pool}
}

const resetColumns = `id, email, code_hash, expires_at, used, created_at`

func scanReset(row pgx.Row) (Reset, error) {
	var r Reset
	if err := row.Scan(&r.ID, &r.Email, &r.CodeHash, &r.ExpiresAt, &r.Used, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reset{}, ErrNoPendingReset
		}
		return Reset{}, err
	}
	return r, nil
}

// CreateReset stores a new code and retires any earlier pending one for the address.
func (r *postgresResetRepository) CreateReset(ctx context.Context, email, codeHash string, expiresAt time.Time) (Reset, error) {
	reset, err := scanReset(r.pool.QueryRow(ctx, `WITH retired AS (
			UPDATE password_resets SET used = true WHERE email = $1 AND used = false
		)
		INSERT INTO password_resets (email, code_hash, expires_at)
		VALUES ($1, $2, $3) RETURNING `+resetColumns, email, codeHash, expiresAt))
	if err != nil {
		return Reset{}, fmt.Errorf("insert password reset: %w", err)
	}
	return reset, nil
}

func (r *postgresResetRepository) CountSince(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM password_resets WHERE email = $1 AND created_at >= $2`, email, since).Scan(&n)
	return n, err
}

func (r *postgresResetRepository) LatestPending(ctx context.Context, email string) (Reset, error) {
	return scanReset(r.pool.QueryRow(ctx, `SELECT `+resetColumns+` FROM password_resets
		WHERE email = $1 AND used = false ORDER BY created_at DESC, id DESC LIMIT 1`, email))
}

func (r *postgresResetRepository) MarkUsed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE password_resets SET used = true WHERE id = $1`, id)
	return err
}

func (r *postgresResetRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < NOW() - INTERVAL '1 hour'`)
	return err
}
