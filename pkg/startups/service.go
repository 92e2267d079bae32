package startups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNameRequired        = errors.New("startup name is required")
	ErrInvalidFundingRound = errors.New("invalid funding round")
)

const roundDateLayout = "2006-01-02"

type StartupService interface {
	CreateStartup(ctx context.Context, input Startup) (Startup, error)
	UpdateStartup(ctx context.Context, input Startup) (Startup, error)
	DeleteStartup(ctx context.Context, id int64) error
	GetStartupByID(ctx context.Context, id int64) (Startup, error)
	ListStartups(ctx context.Context, industry, search string, page, limit int) ([]Startup, int64, error)
	ListStartupsByUser(ctx context.Context, uuid string) ([]Startup, error)
	AddFundingRound(ctx context.Context, id int64, round FundingRound) (Startup, error)
}

type startupService struct {
	repo StartupRepository
}

func NewStartupService(repo StartupRepository) StartupService {
	return &startupService{repo: repo}
}

func normalize(input Startup) (Startup, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Startup{}, ErrNameRequired
	}
	input.Industry = strings.TrimSpace(input.Industry)

	founders := make([]Founder, 0, len(input.Founders))
	for _, f := range input.Founders {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			continue
		}
		founders = append(founders, f)
	}
	if len(founders) == 0 {
		return Startup{}, ErrNoFounders
	}
	input.Founders = founders

	if err := ValidateEquitySplit(input.Founders, input.EquitySplit); err != nil {
		return Startup{}, err
	}
	return input, nil
}

func (s *startupService) CreateStartup(ctx context.Context, input Startup) (Startup, error) {
	input, err := normalize(input)
	if err != nil {
		return Startup{}, err
	}
	for _, r := range input.FundingRounds {
		if err := validateRound(r); err != nil {
			return Startup{}, err
		}
	}
	return s.repo.CreateStartup(ctx, input)
}

func (s *startupService) UpdateStartup(ctx context.Context, input Startup) (Startup, error) {
	input, err := normalize(input)
	if err != nil {
		return Startup{}, err
	}
	return s.repo.UpdateStartup(ctx, input)
}

func (s *startupService) DeleteStartup(ctx context.Context, id int64) error {
	return s.repo.DeleteStartup(ctx, id)
}

func (s *startupService) GetStartupByID(ctx context.Context, id int64) (Startup, error) {
	return s.repo.GetStartupByID(ctx, id)
}

func (s *startupService) ListStartups(ctx context.Context, industry, search string, page, limit int) ([]Startup, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListStartups(ctx, ListFilter{
		Industry: strings.TrimSpace(industry),
		Search:   strings.TrimSpace(search),
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *startupService) ListStartupsByUser(ctx context.Context, uuid string) ([]Startup, error) {
	return s.repo.ListStartupsByUser(ctx, uuid)
}

func validateRound(r FundingRound) error {
	if strings.TrimSpace(r.Stage) == "" {
		return fmt.Errorf("%w: stage is required", ErrInvalidFundingRound)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidFundingRound)
	}
	if _, err := time.Parse(roundDateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidFundingRound)
	}
	return nil
}

func (s *startupService) AddFundingRound(ctx context.Context, id int64, round FundingRound) (Startup, error) {
	round.Stage = strings.TrimSpace(round.Stage)
	if err := validateRound(round); err != nil {
		return Startup{}, err
	}
	return s.repo.AppendFundingRound(ctx, id, round)
}
