package passwordreset

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"foundernet/pkg/sendemail"
	"foundernet/pkg/users"
)

var (
	ErrTooManyRequests = errors.New("too many reset requests, try again later")
	ErrCodeExpired     = errors.New("reset code has expired")
	ErrInvalidCode     = errors.New("invalid reset code")
)

// PasswordStore is the slice of the users repository a reset needs.
type PasswordStore interface {
	GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}

type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type resetService struct {
	repo   ResetRepository
	users  PasswordStore
	mailer sendemail.EmailService
	logger *slog.Logger
	now    func() time.Time
}

func NewResetService(repo ResetRepository, store PasswordStore, mailer sendemail.EmailService, logger *slog.Logger) ResetService {
	return &resetService{repo: repo, users: store, mailer: mailer, logger: logger, now: time.Now}
}

// RequestReset emails a code. Unknown addresses succeed silently so the endpoint
// cannot be used to probe which emails are registered.
func (s *resetService) RequestReset(ctx context.Context, email string) error {
	email = users.NormalizeEmail(email)

	count, err := s.repo.CountSince(ctx, email, s.now().Add(-requestsWindow))
	if err != nil {
		return fmt.Errorf("count reset requests: %w", err)
	}
	if count >= MaxPerHour {
		return ErrTooManyRequests
	}

	if _, _, err := s.users.GetUserAuthByEmail(ctx, email); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.logger.Info("password reset for unknown email", "email", email)
			return nil
		}
		return err
	}

	code, err := generateCode(CodeLength)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.repo.CreateReset(ctx, email, string(hash), s.now().Add(CodeTTL)); err != nil {
		return err
	}

	if err := s.sendCode(email, code); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	if err := s.repo.DeleteExpired(ctx); err != nil {
		s.logger.Warn("prune expired reset codes", "error", err)
	}
	return nil
}

func (s *resetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = users.NormalizeEmail(email)
	if len(newPassword) < users.MinPasswordLength {
		return users.ErrWeakPassword
	}

	reset, err := s.repo.LatestPending(ctx, email)
	if err != nil {
		return err
	}
	if s.now().After(reset.ExpiresAt) {
		return ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(reset.CodeHash), []byte(code)) != nil {
		return ErrInvalidCode
	}

	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		return err
	}
	return s.repo.MarkUsed(ctx, reset.ID)
}

func generateCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

func (s *resetService) sendCode(toEmail, code string) error {
	subject := "Your password reset code"
	plain := fmt.Sprintf("Your password reset code is: %s. It expires in 10 minutes.", code)
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Reset your password</h2>
			<p>Your reset code is:</p>
			<div style="font-size: 24px; font-weight: bold; color: #333; padding: 10px; background-color: #f5f5f5; border-radius: 5px; display: inline-block;">
				%s
			</div>
			<p>This code will expire in 10 minutes.</p>
			<p>If you didn't request a reset, you can ignore this email.</p>
		</div>
	`, code)

	return s.mailer.SendEmail(subject, toEmail, plain, html)
}
