package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"foundernet/pkg/testhelpers"
)

func TestPostgresStatsRepository(t *testing.T) {
	pool := testhelpers.Pool(t)
	testhelpers.ResetTables(t, pool)

	ctx := context.Background()
	founderID, founderUUID := testhelpers.CreateTestUser(t, pool, "founder")
	investorID, _ := testhelpers.CreateTestUser(t, pool, "investor")
	testhelpers.CreateTestStartup(t, pool, founderID, founderUUID)
	postID := testhelpers.CreateTestPost(t, pool, founderID)
	_, err := pool.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, investorID)
	require.NoError(t, err)

	stats, err := NewPostgresStatsRepository(pool).Stats(ctx)
	require.NoError(t, err)

	require.EqualValues(t, 2, stats.TotalUsers)
	require.Contains(t, stats.UsersByRole, LabelCount{Label: "admin", Count: 0})
	require.Contains(t, stats.UsersByRole, LabelCount{Label: "founder", Count: 1})
	require.Len(t, stats.SignupsPerDay, SignupWindowDays)
	require.EqualValues(t, 2, stats.SignupsPerDay[SignupWindowDays-1].Count)
	require.Equal(t, []LabelCount{{Label: "fintech", Count: 1}}, stats.StartupsByIndustry)
	require.EqualValues(t, 1, stats.TotalPosts)
	require.EqualValues(t, 1, stats.TotalLikes)
}
