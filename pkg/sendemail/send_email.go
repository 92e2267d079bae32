package sendemail

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"foundernet/pkg/config"
)

type EmailService interface {
	SendEmail(subject, toEmail, plainTextContent, htmlContent string) error
}

type emailService struct {
	client      *sendgrid.Client
	senderEmail string
	senderName  string
}

// NewEmailService sends through SendGrid. Without an API key mail is only logged,
// which keeps local development and tests free of the network.
func NewEmailService(cfg config.EmailConfig, logger *slog.Logger) EmailService {
	if cfg.SendGridAPIKey == "" {
		return &logMailer{logger: logger}
	}
	return &emailService{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
}

func (e *emailService) SendEmail(subject, toEmail, plainTextContent, htmlContent string) error {
	from := mail.NewEmail(e.senderName, e.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	resp, err := e.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d", resp.StatusCode)
	}
	return nil
}

type logMailer struct {
	logger *slog.Logger
}

func (l *logMailer) SendEmail(subject, toEmail, plainTextContent, _ string) error {
	l.logger.Info("email not sent, sendgrid disabled", "to", toEmail, "subject", subject, "body", plainTextContent)
	return nil
}
