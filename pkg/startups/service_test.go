package startups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStartupRepository struct {
	mock.Mock
}

func (m *mockStartupRepository) CreateStartup(ctx context.Context, input Startup) (Startup, error) {
	args := m.Called(ctx, input)
	startup, _ := args.Get(0).(Startup)
	return startup, args.Error(1)
}

func (m *mockStartupRepository) UpdateStartup(ctx context.Context, input Startup) (Startup, error) {
	args := m.Called(ctx, input)
	startup, _ := args.Get(0).(Startup)
	return startup, args.Error(1)
}

func (m *mockStartupRepository) DeleteStartup(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStartupRepository) GetStartupByID(ctx context.Context, id int64) (Startup, error) {
	args := m.Called(ctx, id)
	startup, _ := args.Get(0).(Startup)
	return startup, args.Error(1)
}

func (m *mockStartupRepository) ListStartups(ctx context.Context, f ListFilter) ([]Startup, int64, error) {
	args := m.Called(ctx, f)
	startups, _ := args.Get(0).([]Startup)
	return startups, args.Get(1).(int64), args.Error(2)
}

func (m *mockStartupRepository) ListStartupsByUser(ctx context.Context, uuid string) ([]Startup, error) {
	args := m.Called(ctx, uuid)
	startups, _ := args.Get(0).([]Startup)
	return startups, args.Error(1)
}

func (m *mockStartupRepository) AppendFundingRound(ctx context.Context, id int64, round FundingRound) (Startup, error) {
	args := m.Called(ctx, id, round)
	startup, _ := args.Get(0).(Startup)
	return startup, args.Error(1)
}

func validStartup() Startup {
	return Startup{
		Name:      " Demo ",
		OwnerUUID: "u1",
		Founders:  []Founder{{UserID: "u1", Name: "Ada"}, {Name: " "}},
		EquitySplit: []EquityHolder{
			{Type: HolderFounder, Name: "Ada", UserID: "u1", EquityPercentage: 100},
		},
	}
}

func TestStartupService_CreateStartup_Normalizes(t *testing.T) {
	repo := new(mockStartupRepository)
	service := NewStartupService(repo)

	repo.On("CreateStartup", mock.Anything, mock.MatchedBy(func(input Startup) bool {
		return input.Name == "Demo" && len(input.Founders) == 1
	})).Return(Startup{ID: 1, Name: "Demo"}, nil)

	result, err := service.CreateStartup(context.Background(), validStartup())

	require.NoError(t, err)
	require.Equal(t, int64(1), result.ID)
	repo.AssertExpectations(t)
}

func TestStartupService_CreateStartup_RejectsShortSplit(t *testing.T) {
	repo := new(mockStartupRepository)
	service := NewStartupService(repo)

	input := validStartup()
	input.EquitySplit[0].EquityPercentage = 99.99

	_, err := service.CreateStartup(context.Background(), input)

	require.ErrorIs(t, err, ErrInvalidEquitySplit)
	repo.AssertNotCalled(t, "CreateStartup", mock.Anything, mock.Anything)
}

func TestStartupService_CreateStartup_RequiresFounderAndName(t *testing.T) {
	repo := new(mockStartupRepository)
	service := NewStartupService(repo)

	input := validStartup()
	input.Founders = nil
	_, err := service.CreateStartup(context.Background(), input)
	require.ErrorIs(t, err, ErrNoFounders)

	input = validStartup()
	input.Name = "  "
	_, err = service.CreateStartup(context.Background(), input)
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestStartupService_UpdateStartup_FounderKeepsRow(t *testing.T) {
	repo := new(mockStartupRepository)
	service := NewStartupService(repo)

	input := validStartup()
	input.ID = 3
	input.Founders = append(input.Founders, Founder{Name: "Grace"})

	_, err := service.UpdateStartup(context.Background(), input)

	require.ErrorIs(t, err, ErrMissingFounderEquity)
	repo.AssertNotCalled(t, "UpdateStartup", mock.Anything, mock.Anything)
}

func TestStartupService_ListStartups_Defaults(t *testing.T) {
	repo := new(mockStartupRepository)
	service := NewStartupService(repo)

	repo.On("ListStartups", mock.Anything, ListFilter{Industry: "fintech", Limit: 10, Offset: 0}).Return([]Startup{}, int64(0), nil)

	_, _, err := service.ListStartups(context.Background(), " fintech ", "", 0, 0)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestStartupService_AddFundingRound(t *testing.T) {
	repo := new(mockStartupRepository)
	service := NewStartupService(repo)

	_, err := service.AddFundingRound(context.Background(), 1, FundingRound{Stage: "seed", Amount: 0, Date: "2024-01-02"})
	require.ErrorIs(t, err, ErrInvalidFundingRound)

	_, err = service.AddFundingRound(context.Background(), 1, FundingRound{Stage: "seed", Amount: 10, Date: "02/01/2024"})
	require.ErrorIs(t, err, ErrInvalidFundingRound)

	round := FundingRound{Stage: "seed", Amount: 500000, Date: "2024-01-02", Investors: []RoundInvestor{{InvestorID: "i1", InvestorName: "Fund"}}}
	repo.On("AppendFundingRound", mock.Anything, int64(1), round).Return(Startup{ID: 1, FundingRounds: []FundingRound{round}}, nil)

	got, err := service.AddFundingRound(context.Background(), 1, FundingRound{Stage: " seed ", Amount: 500000, Date: "2024-01-02", Investors: round.Investors})
	require.NoError(t, err)
	require.Len(t, got.FundingRounds, 1)
	repo.AssertExpectations(t)
}
