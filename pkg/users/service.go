package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"foundernet/pkg/metrics"
	"foundernet/pkg/sendemail"
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidUUID        = errors.New("invalid uuid")
	ErrEmailTaken         = errors.New("user exists with that email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCannotFollowSelf   = errors.New("cannot follow yourself")
)

const MinPasswordLength = 8

type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	UpdateUserByUUID(ctx context.Context, uuid string, u UserUpdate) (User, error)
	DeleteUserByUUID(ctx context.Context, uuid string) error
	GetUserByUUID(ctx context.Context, uuid string) (User, error)
	ListUsers(ctx context.Context, tab Tab, search string, page, limit int) ([]User, int64, error)
	Login(ctx context.Context, email, password string) (User, error)
	Follow(ctx context.Context, followerUUID, followeeUUID string) error
	Unfollow(ctx context.Context, followerUUID, followeeUUID string) error
}

type userService struct {
	repo     UserRepository
	validate *validator.Validate
	mailer   sendemail.EmailService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewUserService wires the service. mailer and m may be nil.
func NewUserService(repo UserRepository, mailer sendemail.EmailService, m *metrics.Metrics, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		repo:     repo,
		validate: validator.New(),
		mailer:   mailer,
		metrics:  m,
		logger:   logger,
	}
}

// IsSignupRole reports whether a role can be chosen at registration.
func IsSignupRole(role string) bool {
	return role == RoleFounder || role == RoleInvestor
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	if !IsSignupRole(in.Role) {
		return User{}, ErrInvalidRole
	}
	in.Email = NormalizeEmail(in.Email)
	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		return User{}, ErrInvalidEmail
	}
	if len(in.Password) < MinPasswordLength {
		return User{}, ErrWeakPassword
	}
	if in.UUID == "" {
		in.UUID = uuid.NewString()
	} else if _, err := uuid.Parse(in.UUID); err != nil {
		return User{}, ErrInvalidUUID
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	u, err := s.repo.CreateUser(ctx, NewUser{
		UUID:          in.UUID,
		Name:          strings.TrimSpace(in.Name),
		Email:         in.Email,
		Role:          in.Role,
		PasswordHash:  hash,
		ProfilePicURL: in.ProfilePicURL,
		Bio:           in.Bio,
		Location:      in.Location,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	s.metrics.ObserveSignup(u.Role.Name)
	s.sendWelcome(u)
	return u, nil
}

// sendWelcome never fails the signup; a lost welcome mail is only logged.
func (s *userService) sendWelcome(u User) {
	if s.mailer == nil {
		return
	}
	subject := "Welcome to foundernet"
	plain := fmt.Sprintf("Hi %s, your %s account is ready.", u.Name, u.Role.Name)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your %s account is ready.</p>", u.Name, u.Role.Name)
	if err := s.mailer.SendEmail(subject, u.Email, plain, html); err != nil {
		s.logger.Warn("welcome email failed", "user", u.UUID, "error", err)
	}
}

func (s *userService) UpdateUserByUUID(ctx context.Context, uuid string, u UserUpdate) (User, error) {
	u.Name = strings.TrimSpace(u.Name)
	return s.repo.UpdateUserByUUID(ctx, uuid, u)
}

func (s *userService) DeleteUserByUUID(ctx context.Context, uuid string) error {
	return s.repo.DeleteUserByUUID(ctx, uuid)
}

func (s *userService) GetUserByUUID(ctx context.Context, uuid string) (User, error) {
	return s.repo.GetUserByUUID(ctx, uuid)
}

func (s *userService) ListUsers(ctx context.Context, tab Tab, search string, page, limit int) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListUsers(ctx, ListFilter{
		Roles:  tab.Roles(),
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: offset,
	})
}

func (s *userService) Login(ctx context.Context, email, password string) (User, error) {
	id, hash, err := s.repo.GetUserAuthByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return s.repo.GetUserByID(ctx, id)
}

func (s *userService) Follow(ctx context.Context, followerUUID, followeeUUID string) error {
	if followerUUID == followeeUUID {
		return ErrCannotFollowSelf
	}
	return s.repo.Follow(ctx, followerUUID, followeeUUID)
}

func (s *userService) Unfollow(ctx context.Context, followerUUID, followeeUUID string) error {
	return s.repo.Unfollow(ctx, followerUUID, followeeUUID)
}
