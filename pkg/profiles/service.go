package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrSkillsRequired     = errors.New("at least one skill is required")
	ErrInvalidTicketRange = errors.New("ticket_min must not exceed ticket_max")
	ErrInvalidURL         = errors.New("invalid url")
)

type ProfileService interface {
	CreateFounderProfile(ctx context.Context, p FounderProfile) (FounderProfile, error)
	GetFounderProfile(ctx context.Context, userUUID string) (FounderProfile, error)
	CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error)
	GetInvestorProfile(ctx context.Context, userUUID string) (InvestorProfile, error)
}

type profileService struct {
	repo     ProfileRepository
	validate *validator.Validate
}

func NewProfileService(repo ProfileRepository) ProfileService {
	return &profileService{repo: repo, validate: validator.New()}
}

// cleanList trims entries and drops blanks.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := strings.TrimSpace(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *profileService) optionalURL(u string) error {
	if u == "" {
		return nil
	}
	if err := s.validate.Var(u, "url"); err != nil {
		return ErrInvalidURL
	}
	return nil
}

func (s *profileService) CreateFounderProfile(ctx context.Context, p FounderProfile) (FounderProfile, error) {
	p.Skills = cleanList(p.Skills)
	if len(p.Skills) == 0 {
		return FounderProfile{}, ErrSkillsRequired
	}
	p.LinkedInURL = strings.TrimSpace(p.LinkedInURL)
	if err := s.optionalURL(p.LinkedInURL); err != nil {
		return FounderProfile{}, err
	}
	return s.repo.CreateFounderProfile(ctx, p)
}

func (s *profileService) GetFounderProfile(ctx context.Context, userUUID string) (FounderProfile, error) {
	return s.repo.GetFounderProfile(ctx, userUUID)
}

func (s *profileService) CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error) {
	if p.TicketMin < 0 || p.TicketMax < 0 || p.TicketMin > p.TicketMax {
		return InvestorProfile{}, ErrInvalidTicketRange
	}
	p.InvestmentFocus = cleanList(p.InvestmentFocus)
	p.FirmName = strings.TrimSpace(p.FirmName)
	p.PortfolioURL = strings.TrimSpace(p.PortfolioURL)
	if err := s.optionalURL(p.PortfolioURL); err != nil {
		return InvestorProfile{}, err
	}
	return s.repo.CreateInvestorProfile(ctx, p)
}

func (s *profileService) GetInvestorProfile(ctx context.Context, userUUID string) (InvestorProfile, error) {
	return s.repo.GetInvestorProfile(ctx, userUUID)
}
