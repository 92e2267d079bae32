package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const SignupWindowDays = 30

type StatsRepository interface {
	Stats(ctx context.Context) (Stats, error)
}

type postgresStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &postgresStatsRepository{pool: pool}
}

func scanLabelCounts(rows pgx.Rows) ([]LabelCount, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (LabelCount, error) {
		var lc LabelCount
		err := row.Scan(&lc.Label, &lc.Count)
		return lc, err
	})
}

// Stats runs every dashboard query inside one read-only snapshot so the numbers agree.
func (r *postgresStatsRepository) Stats(ctx context.Context) (Stats, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var s Stats

	rows, err := tx.Query(ctx, `SELECT r.name, COUNT(u.id)
		FROM roles r LEFT JOIN users u ON u.role_id = r.id AND u.is_deleted = false
		GROUP BY r.name ORDER BY r.name`)
	if err != nil {
		return Stats{}, fmt.Errorf("users by role: %w", err)
	}
	if s.UsersByRole, err = scanLabelCounts(rows); err != nil {
		return Stats{}, fmt.Errorf("users by role: %w", err)
	}
	for _, lc := range s.UsersByRole {
		s.TotalUsers += lc.Count
	}

	rows, err = tx.Query(ctx, `SELECT to_char(d.day, 'YYYY-MM-DD'), COUNT(u.id)
		FROM generate_series(CURRENT_DATE - ($1::int - 1), CURRENT_DATE, INTERVAL '1 day') AS d(day)
		LEFT JOIN users u ON u.created_at::date = d.day::date AND u.is_deleted = false
		GROUP BY d.day ORDER BY d.day`, SignupWindowDays)
	if err != nil {
		return Stats{}, fmt.Errorf("signups per day: %w", err)
	}
	s.SignupsPerDay, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (DayCount, error) {
		var dc DayCount
		err := row.Scan(&dc.Date, &dc.Count)
		return dc, err
	})
	if err != nil {
		return Stats{}, fmt.Errorf("signups per day: %w", err)
	}

	rows, err = tx.Query(ctx, `SELECT COALESCE(NULLIF(lower(industry), ''), 'unspecified') AS label, COUNT(*)
		FROM startups WHERE is_deleted = false
		GROUP BY label ORDER BY COUNT(*) DESC, label`)
	if err != nil {
		return Stats{}, fmt.Errorf("startups by industry: %w", err)
	}
	if s.StartupsByIndustry, err = scanLabelCounts(rows); err != nil {
		return Stats{}, fmt.Errorf("startups by industry: %w", err)
	}
	for _, lc := range s.StartupsByIndustry {
		s.TotalStartups += lc.Count
	}

	err = tx.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM posts WHERE is_deleted = false),
		(SELECT COUNT(*) FROM post_likes pl JOIN posts p ON p.id = pl.post_id WHERE p.is_deleted = false),
		(SELECT COUNT(*) FROM post_comments c JOIN posts p ON p.id = c.post_id WHERE p.is_deleted = false)`).
		Scan(&s.TotalPosts, &s.TotalLikes, &s.TotalComments)
	if err != nil {
		return Stats{}, fmt.Errorf("feed totals: %w", err)
	}

	return s, nil
}
