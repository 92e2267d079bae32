package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) CreateFounderProfile(ctx context.Context, p FounderProfile) (FounderProfile, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(FounderProfile)
	return out, args.Error(1)
}

func (m *mockProfileRepository) GetFounderProfile(ctx context.Context, userUUID string) (FounderProfile, error) {
	args := m.Called(ctx, userUUID)
	out, _ := args.Get(0).(FounderProfile)
	return out, args.Error(1)
}

func (m *mockProfileRepository) CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(InvestorProfile)
	return out, args.Error(1)
}

func (m *mockProfileRepository) GetInvestorProfile(ctx context.Context, userUUID string) (InvestorProfile, error) {
	args := m.Called(ctx, userUUID)
	out, _ := args.Get(0).(InvestorProfile)
	return out, args.Error(1)
}

func TestProfileService_CreateFounderProfile_RequiresSkills(t *testing.T) {
	repo := new(mockProfileRepository)
	svc := NewProfileService(repo)

	_, err := svc.CreateFounderProfile(context.Background(), FounderProfile{UserUUID: "u1", Skills: []string{" ", ""}})

	require.ErrorIs(t, err, ErrSkillsRequired)
	repo.AssertNotCalled(t, "CreateFounderProfile", mock.Anything, mock.Anything)
}

func TestProfileService_CreateFounderProfile_TrimsSkills(t *testing.T) {
	repo := new(mockProfileRepository)
	svc := NewProfileService(repo)

	want := FounderProfile{UserUUID: "u1", Skills: []string{"go", "sales"}, LinkedInURL: "https://linkedin.com/in/ada"}
	repo.On("CreateFounderProfile", mock.Anything, want).Return(want, nil)

	got, err := svc.CreateFounderProfile(context.Background(), FounderProfile{
		UserUUID: "u1", Skills: []string{" go ", "", "sales"}, LinkedInURL: " https://linkedin.com/in/ada ",
	})

	require.NoError(t, err)
	require.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestProfileService_CreateFounderProfile_BadURL(t *testing.T) {
	repo := new(mockProfileRepository)
	svc := NewProfileService(repo)

	_, err := svc.CreateFounderProfile(context.Background(), FounderProfile{UserUUID: "u1", Skills: []string{"go"}, LinkedInURL: "not a url"})

	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestProfileService_CreateInvestorProfile_TicketRange(t *testing.T) {
	repo := new(mockProfileRepository)
	svc := NewProfileService(repo)

	_, err := svc.CreateInvestorProfile(context.Background(), InvestorProfile{UserUUID: "u1", TicketMin: 500, TicketMax: 100})
	require.ErrorIs(t, err, ErrInvalidTicketRange)

	_, err = svc.CreateInvestorProfile(context.Background(), InvestorProfile{UserUUID: "u1", TicketMin: -1, TicketMax: 100})
	require.ErrorIs(t, err, ErrInvalidTicketRange)

	repo.On("CreateInvestorProfile", mock.Anything, mock.MatchedBy(func(p InvestorProfile) bool {
		return p.TicketMin == 100 && p.TicketMax == 100
	})).Return(InvestorProfile{UserUUID: "u1"}, nil)

	_, err = svc.CreateInvestorProfile(context.Background(), InvestorProfile{UserUUID: "u1", TicketMin: 100, TicketMax: 100})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
