package testhelpers

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"foundernet/pkg/db"
)

var (
	uniqueCounter int64
	migrateOnce   sync.Once
	migrateErr    error
)

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// Pool connects to DATABASE_URL_FOR_TEST, applying migrations once per test binary.
// Tests are skipped when the variable is unset.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping repository tests")
	}

	migrateOnce.Do(func() {
		_, migrateErr = db.MigrateUp(dsn)
	})
	require.NoError(t, migrateErr)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	t.Cleanup(pool.Close)
	return pool
}

// ResetTables empties every domain table. Roles are seed data and survive.
func ResetTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE TABLE messages, password_resets, post_comments, post_likes, posts,
		pitch_decks, startups, investor_profiles, founder_profiles, follows, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

// CreateTestUser inserts a user with the given role name and returns its id and uuid.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, role string) (int64, string) {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	name := fmt.Sprintf("test-user-%d", suffix)
	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])
	uid := uuid.NewString()

	var id int64
	err := pool.QueryRow(ctx, `INSERT INTO users (uuid, name, email, password_hash, role_id)
		SELECT $1, $2, $3, 'hash', id FROM roles WHERE name = $4 RETURNING id`, uid, name, email, role).Scan(&id)
	require.NoError(t, err)
	return id, uid
}

// CreateTestStartup inserts a startup owned by ownerID with a single 100% founder row.
func CreateTestStartup(t *testing.T, pool *pgxpool.Pool, ownerID int64, ownerUUID string) int64 {
	t.Helper()

	ctx := context.Background()
	name := fmt.Sprintf("test-startup-%d", nextSuffix())
	founders := fmt.Sprintf(`[{"userId":%q,"name":"Owner"}]`, ownerUUID)
	equity := fmt.Sprintf(`[{"type":"founder","name":"Owner","userId":%q,"equity_percentage":100}]`, ownerUUID)

	var id int64
	err := pool.QueryRow(ctx, `INSERT INTO startups (name, industry, owner_id, founders, equity_split)
		VALUES ($1, 'fintech', $2, $3::jsonb, $4::jsonb) RETURNING id`, name, ownerID, founders, equity).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestPost inserts a post by authorID and returns its id.
func CreateTestPost(t *testing.T, pool *pgxpool.Pool, authorID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO posts (author_id, title, content) VALUES ($1, $2, 'hello') RETURNING id`,
		authorID, fmt.Sprintf("post-%d", nextSuffix())).Scan(&id)
	require.NoError(t, err)
	return id
}
