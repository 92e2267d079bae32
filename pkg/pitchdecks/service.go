package pitchdecks

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"foundernet/pkg/startups"
)

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrInvalidFileURL = errors.New("file_url must be an absolute url or an uploaded /files/ path")
)

// StartupLookup resolves the startup a deck belongs to.
type StartupLookup interface {
	GetStartupByID(ctx context.Context, id int64) (startups.Startup, error)
}

type PitchDeckService interface {
	CreatePitchDeck(ctx context.Context, input PitchDeck) (PitchDeck, error)
	ListByStartup(ctx context.Context, startupID int64) ([]PitchDeck, error)
	GetActive(ctx context.Context, startupID int64) (*PitchDeck, error)
	Activate(ctx context.Context, id int64) (PitchDeck, error)
	DeletePitchDeck(ctx context.Context, id int64) error
	StartupOwner(ctx context.Context, startupID int64) (string, error)
	DeckOwner(ctx context.Context, deckID int64) (string, error)
}

type pitchDeckService struct {
	repo     PitchDeckRepository
	startups StartupLookup
	validate *validator.Validate
}

func NewPitchDeckService(repo PitchDeckRepository, lookup StartupLookup) PitchDeckService {
	return &pitchDeckService{repo: repo, startups: lookup, validate: validator.New()}
}

func (s *pitchDeckService) CreatePitchDeck(ctx context.Context, input PitchDeck) (PitchDeck, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return PitchDeck{}, ErrTitleRequired
	}
	input.FileURL = strings.TrimSpace(input.FileURL)
	if !strings.HasPrefix(input.FileURL, "/files/") && s.validate.Var(input.FileURL, "required,url") != nil {
		return PitchDeck{}, ErrInvalidFileURL
	}
	return s.repo.CreatePitchDeck(ctx, input)
}

func (s *pitchDeckService) ListByStartup(ctx context.Context, startupID int64) ([]PitchDeck, error) {
	return s.repo.ListByStartup(ctx, startupID)
}

func (s *pitchDeckService) GetActive(ctx context.Context, startupID int64) (*PitchDeck, error) {
	return s.repo.GetActive(ctx, startupID)
}

func (s *pitchDeckService) Activate(ctx context.Context, id int64) (PitchDeck, error) {
	return s.repo.Activate(ctx, id)
}

func (s *pitchDeckService) DeletePitchDeck(ctx context.Context, id int64) error {
	return s.repo.DeletePitchDeck(ctx, id)
}

func (s *pitchDeckService) StartupOwner(ctx context.Context, startupID int64) (string, error) {
	st, err := s.startups.GetStartupByID(ctx, startupID)
	if err != nil {
		return "", err
	}
	return st.OwnerUUID, nil
}

func (s *pitchDeckService) DeckOwner(ctx context.Context, deckID int64) (string, error) {
	d, err := s.repo.GetPitchDeckByID(ctx, deckID)
	if err != nil {
		return "", err
	}
	return s.StartupOwner(ctx, d.StartupID)
}
