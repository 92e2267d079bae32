package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"foundernet/pkg/testhelpers"
)

func TestPostgresProfileRepository_Founder(t *testing.T) {
	pool := testhelpers.Pool(t)
	repo := NewPostgresProfileRepository(pool)
	ctx := context.Background()

	_, founderUUID := testhelpers.CreateTestUser(t, pool, "founder")
	_, investorUUID := testhelpers.CreateTestUser(t, pool, "investor")

	created, err := repo.CreateFounderProfile(ctx, FounderProfile{UserUUID: founderUUID, Skills: []string{"go", "sales"}})
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateFounderProfile(ctx, FounderProfile{UserUUID: founderUUID, Skills: []string{"go"}})
	require.ErrorIs(t, err, ErrProfileExists)

	_, err = repo.CreateFounderProfile(ctx, FounderProfile{UserUUID: investorUUID, Skills: []string{"go"}})
	require.ErrorIs(t, err, ErrRoleMismatch)

	_, err = repo.CreateFounderProfile(ctx, FounderProfile{UserUUID: "missing", Skills: []string{"go"}})
	require.ErrorIs(t, err, ErrUserNotFound)

	got, err := repo.GetFounderProfile(ctx, founderUUID)
	require.NoError(t, err)
	require.Equal(t, []string{"go", "sales"}, got.Skills)
}

func TestPostgresProfileRepository_Investor(t *testing.T) {
	pool := testhelpers.Pool(t)
	repo := NewPostgresProfileRepository(pool)
	ctx := context.Background()

	_, investorUUID := testhelpers.CreateTestUser(t, pool, "investor")

	_, err := repo.GetInvestorProfile(ctx, investorUUID)
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = repo.CreateInvestorProfile(ctx, InvestorProfile{
		UserUUID: investorUUID, FirmName: "Seed Co", TicketMin: 25000, TicketMax: 250000.5,
	})
	require.NoError(t, err)

	got, err := repo.GetInvestorProfile(ctx, investorUUID)
	require.NoError(t, err)
	require.Equal(t, "Seed Co", got.FirmName)
	require.Equal(t, 250000.5, got.TicketMax)
	require.Empty(t, got.InvestmentFocus)
}
