package startups

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrStartupNotFound = errors.New("startup not found")
	ErrOwnerNotFound   = errors.New("owner not found")
)

type StartupRepository interface {
	CreateStartup(ctx context.Context, input Startup) (Startup, error)
	UpdateStartup(ctx context.Context, input Startup) (Startup, error)
	DeleteStartup(ctx context.Context, id int64) error
	GetStartupByID(ctx context.Context, id int64) (Startup, error)
	ListStartups(ctx context.Context, f ListFilter) ([]Startup, int64, error)
	ListStartupsByUser(ctx context.Context, uuid string) ([]Startup, error)
	AppendFundingRound(ctx context.Context, id int64, round FundingRound) (Startup, error)
}

type postgresStartupRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStartupRepository(pool *pgxpool.Pool) StartupRepository {
	return &postgresStartupRepository{pool: pool}
}

const selectStartup = `
	SELECT s.id, s.name, s.description, s.industry, s.website, s.market_size, s.revenue_model,
	       s.logo_url, u.uuid, s.founders, s.equity_split, s.funding_rounds, s.created_at, s.updated_at
	FROM startups s
	JOIN users u ON u.id = s.owner_id`

func scanStartup(row pgx.Row) (Startup, error) {
	var s Startup
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Industry, &s.Website, &s.MarketSize, &s.RevenueModel,
		&s.LogoURL, &s.OwnerUUID, &s.Founders, &s.EquitySplit, &s.FundingRounds, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Startup{}, ErrStartupNotFound
		}
		return Startup{}, err
	}
	if s.Founders == nil {
		s.Founders = []Founder{}
	}
	if s.EquitySplit == nil {
		s.EquitySplit = []EquityHolder{}
	}
	if s.FundingRounds == nil {
		s.FundingRounds = []FundingRound{}
	}
	return s, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *postgresStartupRepository) CreateStartup(ctx context.Context, input Startup) (Startup, error) {
	query := `INSERT INTO startups (name, description, industry, website, market_size, revenue_model, logo_url,
                                    owner_id, founders, equity_split, funding_rounds)
              SELECT $1, $2, $3, $4, $5, $6, $7, u.id, $9::jsonb, $10::jsonb, $11::jsonb
              FROM users u WHERE u.uuid = $8 AND u.is_deleted = false
              RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, input.Name, input.Description, input.Industry, input.Website,
		input.MarketSize, input.RevenueModel, input.LogoURL, input.OwnerUUID,
		nonNil(input.Founders), nonNil(input.EquitySplit), nonNil(input.FundingRounds)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Startup{}, ErrOwnerNotFound
		}
		return Startup{}, fmt.Errorf("insert startup: %w", err)
	}
	return r.GetStartupByID(ctx, id)
}

// UpdateStartup replaces the editable fields. Owner and funding rounds are not touched.
func (r *postgresStartupRepository) UpdateStartup(ctx context.Context, input Startup) (Startup, error) {
	query := `UPDATE startups
              SET name = $1, description = $2, industry = $3, website = $4, market_size = $5,
                  revenue_model = $6, logo_url = $7, founders = $8::jsonb, equity_split = $9::jsonb,
                  updated_at = NOW()
              WHERE id = $10 AND is_deleted = false`

	cmd, err := r.pool.Exec(ctx, query, input.Name, input.Description, input.Industry, input.Website,
		input.MarketSize, input.RevenueModel, input.LogoURL, nonNil(input.Founders), nonNil(input.EquitySplit), input.ID)
	if err != nil {
		return Startup{}, fmt.Errorf("update startup: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return Startup{}, ErrStartupNotFound
	}
	return r.GetStartupByID(ctx, input.ID)
}

func (r *postgresStartupRepository) DeleteStartup(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE startups SET is_deleted = true WHERE id = $1 AND is_deleted = false", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStartupNotFound
	}
	return nil
}

func (r *postgresStartupRepository) GetStartupByID(ctx context.Context, id int64) (Startup, error) {
	return scanStartup(r.pool.QueryRow(ctx, selectStartup+` WHERE s.id = $1 AND s.is_deleted = false`, id))
}

func (r *postgresStartupRepository) collect(rows pgx.Rows) ([]Startup, error) {
	defer rows.Close()

	startups := make([]Startup, 0)
	for rows.Next() {
		s, err := scanStartup(rows)
		if err != nil {
			return nil, err
		}
		startups = append(startups, s)
	}
	return startups, rows.Err()
}

func (r *postgresStartupRepository) ListStartups(ctx context.Context, f ListFilter) ([]Startup, int64, error) {
	where := ` WHERE s.is_deleted = false
	             AND ($1 = '' OR lower(s.industry) = lower($1))
	             AND ($2 = '' OR s.name ILIKE '%' || $2 || '%' OR s.description ILIKE '%' || $2 || '%')`

	rows, err := r.pool.Query(ctx, selectStartup+where+` ORDER BY s.id LIMIT $3 OFFSET $4`,
		f.Industry, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	startups, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countRow := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM startups s`+where, f.Industry, f.Search)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count startups: %w", err)
	}

	return startups, total, nil
}

func (r *postgresStartupRepository) ListStartupsByUser(ctx context.Context, uuid string) ([]Startup, error) {
	rows, err := r.pool.Query(ctx, selectStartup+` WHERE u.uuid = $1 AND s.is_deleted = false ORDER BY s.id`, uuid)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *postgresStartupRepository) AppendFundingRound(ctx context.Context, id int64, round FundingRound) (Startup, error) {
	round.Investors = nonNil(round.Investors)
	cmd, err := r.pool.Exec(ctx, `UPDATE startups
              SET funding_rounds = funding_rounds || $2::jsonb, updated_at = NOW()
              WHERE id = $1 AND is_deleted = false`, id, []FundingRound{round})
	if err != nil {
		return Startup{}, fmt.Errorf("append funding round: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return Startup{}, ErrStartupNotFound
	}
	return r.GetStartupByID(ctx, id)
}
