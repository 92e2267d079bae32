package pitchdecks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"foundernet/pkg/startups"
)

var ErrPitchDeckNotFound = errors.New("pitch deck not found")

type PitchDeckRepository interface {
	CreatePitchDeck(ctx context.Context, input PitchDeck) (PitchDeck, error)
	GetPitchDeckByID(ctx context.Context, id int64) (PitchDeck, error)
	ListByStartup(ctx context.Context, startupID int64) ([]PitchDeck, error)
	// GetActive returns (nil, nil) when the startup has no active deck.
	GetActive(ctx context.Context, startupID int64) (*PitchDeck, error)
	Activate(ctx context.Context, id int64) (PitchDeck, error)
	DeletePitchDeck(ctx context.Context, id int64) error
}

type postgresPitchDeckRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPitchDeckRepository(pool *pgxpool.Pool) PitchDeckRepository {
	return &postgresPitchDeckRepository{pool: pool}
}

const deckColumns = `id, startup_id, title, file_url, is_active, created_at`

func scanDeck(row pgx.Row) (PitchDeck, error) {
	var d PitchDeck
	if err := row.Scan(&d.ID, &d.StartupID, &d.Title, &d.FileURL, &d.IsActive, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PitchDeck{}, ErrPitchDeckNotFound
		}
		return PitchDeck{}, err
	}
	return d, nil
}

func (r *postgresPitchDeckRepository) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// CreatePitchDeck stores a deck. A deck created active, or the first deck of a
// startup, replaces the startup's active deck.
func (r *postgresPitchDeckRepository) CreatePitchDeck(ctx context.Context, input PitchDeck) (PitchDeck, error) {
	var created PitchDeck
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		// serializes deck creation per startup
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM startups WHERE id = $1 AND is_deleted = false FOR UPDATE`, input.StartupID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return startups.ErrStartupNotFound
			}
			return err
		}

		var existing int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM pitch_decks WHERE startup_id = $1`, input.StartupID).Scan(&existing); err != nil {
			return err
		}
		active := input.IsActive || existing == 0
		if active {
			if _, err := tx.Exec(ctx, `UPDATE pitch_decks SET is_active = false WHERE startup_id = $1 AND is_active`, input.StartupID); err != nil {
				return err
			}
		}

		var err error
		created, err = scanDeck(tx.QueryRow(ctx, `INSERT INTO pitch_decks (startup_id, title, file_url, is_active)
			VALUES ($1, $2, $3, $4) RETURNING `+deckColumns, input.StartupID, input.Title, input.FileURL, active))
		return err
	})
	if err != nil {
		if errors.Is(err, startups.ErrStartupNotFound) {
			return PitchDeck{}, err
		}
		return PitchDeck{}, fmt.Errorf("create pitch deck: %w", err)
	}
	return created, nil
}

func (r *postgresPitchDeckRepository) GetPitchDeckByID(ctx context.Context, id int64) (PitchDeck, error) {
	return scanDeck(r.pool.QueryRow(ctx, `SELECT `+deckColumns+` FROM pitch_decks WHERE id = $1`, id))
}

func (r *postgresPitchDeckRepository) ListByStartup(ctx context.Context, startupID int64) ([]PitchDeck, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+deckColumns+` FROM pitch_decks WHERE startup_id = $1 ORDER BY created_at DESC, id DESC`, startupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := make([]PitchDeck, 0)
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *postgresPitchDeckRepository) GetActive(ctx context.Context, startupID int64) (*PitchDeck, error) {
	d, err := scanDeck(r.pool.QueryRow(ctx, `SELECT `+deckColumns+` FROM pitch_decks WHERE startup_id = $1 AND is_active`, startupID))
	if err != nil {
		if errors.Is(err, ErrPitchDeckNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *postgresPitchDeckRepository) Activate(ctx context.Context, id int64) (PitchDeck, error) {
	var activated PitchDeck
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var startupID int64
		if err := tx.QueryRow(ctx, `SELECT startup_id FROM pitch_decks WHERE id = $1 FOR UPDATE`, id).Scan(&startupID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPitchDeckNotFound
			}
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE pitch_decks SET is_active = false WHERE startup_id = $1 AND is_active AND id <> $2`, startupID, id); err != nil {
			return err
		}

		var err error
		activated, err = scanDeck(tx.QueryRow(ctx, `UPDATE pitch_decks SET is_active = true WHERE id = $1 RETURNING `+deckColumns, id))
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPitchDeckNotFound) {
			return PitchDeck{}, err
		}
		return PitchDeck{}, fmt.Errorf("activate pitch deck: %w", err)
	}
	return activated, nil
}

func (r *postgresPitchDeckRepository) DeletePitchDeck(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pitch_decks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPitchDeckNotFound
	}
	return nil
}
