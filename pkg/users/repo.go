package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUnknownRole    = errors.New("unknown role")
	ErrAlreadyFollows = errors.New("already following")
	ErrNotFollowing   = errors.New("not following")
)

type UserRepository interface {
	CreateUser(ctx context.Context, u NewUser) (User, error)
	UpdateUserByUUID(ctx context.Context, uuid string, u UserUpdate) (User, error)
	DeleteUserByUUID(ctx context.Context, uuid string) error
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByUUID(ctx context.Context, uuid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, f ListFilter) ([]User, int64, error)
	// Auth helpers
	GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	Follow(ctx context.Context, followerUUID, followeeUUID string) error
	Unfollow(ctx context.Context, followerUUID, followeeUUID string) error
}

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{pool: pool}
}

// selectUser resolves the role record and both follow lists in one round trip.
const selectUser = `
	SELECT u.id, u.uuid, u.name, COALESCE(u.email, ''), r.id, r.name,
	       u.profile_pic_url, u.bio, u.location,
	       ARRAY(SELECT f.uuid FROM follows fl JOIN users f ON f.id = fl.follower_id
	             WHERE fl.followee_id = u.id AND f.is_deleted = false ORDER BY fl.created_at),
	       ARRAY(SELECT t.uuid FROM follows fl JOIN users t ON t.id = fl.followee_id
	             WHERE fl.follower_id = u.id AND t.is_deleted = false ORDER BY fl.created_at),
	       u.verified_at, u.created_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.UUID, &u.Name, &u.Email, &u.Role.ID, &u.Role.Name,
		&u.ProfilePicURL, &u.Bio, &u.Location, &u.Followers, &u.Following,
		&u.VerifiedAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	return u, nil
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	query := `INSERT INTO users (uuid, name, email, password_hash, role_id, profile_pic_url, bio, location, created_at)
              SELECT $1, $2, $3, $4, r.id, $6, $7, $8, NOW()
              FROM roles r WHERE r.name = $5
              RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, nu.UUID, nu.Name, nu.Email, nu.PasswordHash, nu.Role,
		nu.ProfilePicURL, nu.Bio, nu.Location).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUnknownRole
		}
		return User{}, err
	}
	return r.GetUserByID(ctx, id)
}

func (r *postgresUserRepository) UpdateUserByUUID(ctx context.Context, uuid string, u UserUpdate) (User, error) {
	query := `UPDATE users
              SET name = $1, profile_pic_url = $2, bio = $3, location = $4
              WHERE uuid = $5 AND is_deleted = false
              RETURNING id`

	var id int64
	if err := r.pool.QueryRow(ctx, query, u.Name, u.ProfilePicURL, u.Bio, u.Location, uuid).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return r.GetUserByID(ctx, id)
}

// DeleteUserByUUID soft-deletes and releases the email for re-registration.
func (r *postgresUserRepository) DeleteUserByUUID(ctx context.Context, uuid string) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE users SET email = NULL, is_deleted = true WHERE uuid = $1 AND is_deleted = false", uuid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.id = $1 AND u.is_deleted = false`, id))
}

func (r *postgresUserRepository) GetUserByUUID(ctx context.Context, uuid string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.uuid = $1 AND u.is_deleted = false`, uuid))
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE u.email = $1 AND u.is_deleted = false`, email))
}

func (r *postgresUserRepository) ListUsers(ctx context.Context, f ListFilter) ([]User, int64, error) {
	where := ` WHERE u.is_deleted = false
	             AND r.name = ANY($1)
	             AND ($2 = '' OR u.name ILIKE '%' || $2 || '%' OR u.email ILIKE '%' || $2 || '%')`

	rows, err := r.pool.Query(ctx, selectUser+where+` ORDER BY u.id LIMIT $3 OFFSET $4`,
		f.Roles, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, f.Roles, f.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return list, total, nil
}

func (r *postgresUserRepository) GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error) {
	var id int64
	var hash string
	row := r.pool.QueryRow(ctx, `SELECT id, password_hash FROM users WHERE email = $1 AND is_deleted = false`, email)
	if err := row.Scan(&id, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", ErrUserNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

// UpdatePasswordByEmail also marks the address verified; only the mailbox owner can complete a reset.
func (r *postgresUserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, verified_at = COALESCE(verified_at, NOW())
	          WHERE email = $2 AND is_deleted = false`, passwordHash, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) Follow(ctx context.Context, followerUUID, followeeUUID string) error {
	query := `INSERT INTO follows (follower_id, followee_id)
              SELECT a.id, b.id FROM users a, users b
              WHERE a.uuid = $1 AND b.uuid = $2 AND a.is_deleted = false AND b.is_deleted = false
              ON CONFLICT DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query, followerUUID, followeeUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// either an unknown user or an existing edge
		if _, err := r.GetUserByUUID(ctx, followeeUUID); err != nil {
			return err
		}
		if _, err := r.GetUserByUUID(ctx, followerUUID); err != nil {
			return err
		}
		return ErrAlreadyFollows
	}
	return nil
}

func (r *postgresUserRepository) Unfollow(ctx context.Context, followerUUID, followeeUUID string) error {
	query := `DELETE FROM follows fl
              USING users a, users b
              WHERE fl.follower_id = a.id AND fl.followee_id = b.id AND a.uuid = $1 AND b.uuid = $2`
	cmd, err := r.pool.Exec(ctx, query, followerUUID, followeeUUID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFollowing
	}
	return nil
}
