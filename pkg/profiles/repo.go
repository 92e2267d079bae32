package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrRoleMismatch    = errors.New("user role does not match profile type")
)

type ProfileRepository interface {
	CreateFounderProfile(ctx context.Context, p FounderProfile) (FounderProfile, error)
	GetFounderProfile(ctx context.Context, userUUID string) (FounderProfile, error)
	CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error)
	GetInvestorProfile(ctx context.Context, userUUID string) (InvestorProfile, error)
}

type postgresProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &postgresProfileRepository{pool: pool}
}

// insertFailure explains why an INSERT ... SELECT for a profile produced no row.
func (r *postgresProfileRepository) insertFailure(ctx context.Context, userUUID string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrProfileExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if qerr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE uuid = $1 AND is_deleted = false)`, userUUID).Scan(&exists); qerr != nil {
		return qerr
	}
	if !exists {
		return ErrUserNotFound
	}
	return ErrRoleMismatch
}

func (r *postgresProfileRepository) CreateFounderProfile(ctx context.Context, p FounderProfile) (FounderProfile, error) {
	query := `INSERT INTO founder_profiles (user_id, skills, experience, linkedin_url)
              SELECT u.id, $2::text[], $3, $4
              FROM users u JOIN roles r ON r.id = u.role_id
              WHERE u.uuid = $1 AND u.is_deleted = false AND r.name = 'founder'
              RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, p.UserUUID, p.Skills, p.Experience, p.LinkedInURL).Scan(&p.CreatedAt); err != nil {
		return FounderProfile{}, r.insertFailure(ctx, p.UserUUID, err)
	}
	return p, nil
}

func (r *postgresProfileRepository) GetFounderProfile(ctx context.Context, userUUID string) (FounderProfile, error) {
	query := `SELECT u.uuid, fp.skills, fp.experience, fp.linkedin_url, fp.created_at
              FROM founder_profiles fp JOIN users u ON u.id = fp.user_id
              WHERE u.uuid = $1 AND u.is_deleted = false`

	var p FounderProfile
	err := r.pool.QueryRow(ctx, query, userUUID).Scan(&p.UserUUID, &p.Skills, &p.Experience, &p.LinkedInURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FounderProfile{}, ErrProfileNotFound
		}
		return FounderProfile{}, err
	}
	return p, nil
}

func (r *postgresProfileRepository) CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error) {
	query := `INSERT INTO investor_profiles (user_id, firm_name, investment_focus, ticket_min, ticket_max, portfolio_url)
              SELECT u.id, $2, $3::text[], $4::numeric, $5::numeric, $6
              FROM users u JOIN roles r ON r.id = u.role_id
              WHERE u.uuid = $1 AND u.is_deleted = false AND r.name = 'investor'
              RETURNING created_at`

	if p.InvestmentFocus == nil {
		p.InvestmentFocus = []string{}
	}
	err := r.pool.QueryRow(ctx, query, p.UserUUID, p.FirmName, p.InvestmentFocus,
		p.TicketMin, p.TicketMax, p.PortfolioURL).Scan(&p.CreatedAt)
	if err != nil {
		return InvestorProfile{}, r.insertFailure(ctx, p.UserUUID, err)
	}
	return p, nil
}

func (r *postgresProfileRepository) GetInvestorProfile(ctx context.Context, userUUID string) (InvestorProfile, error) {
	query := `SELECT u.uuid, ip.firm_name, ip.investment_focus, ip.ticket_min::float8, ip.ticket_max::float8,
                     ip.portfolio_url, ip.created_at
              FROM investor_profiles ip JOIN users u ON u.id = ip.user_id
              WHERE u.uuid = $1 AND u.is_deleted = false`

	var p InvestorProfile
	err := r.pool.QueryRow(ctx, query, userUUID).Scan(&p.UserUUID, &p.FirmName, &p.InvestmentFocus,
		&p.TicketMin, &p.TicketMax, &p.PortfolioURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvestorProfile{}, ErrProfileNotFound
		}
		return InvestorProfile{}, err
	}
	return p, nil
}
