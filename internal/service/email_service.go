package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма
type EmailService interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string) error
}

// NoopEmailService используется, когда отправка писем не сконфигурирована
type NoopEmailService struct{}

func (s *NoopEmailService) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	log.Printf("[EmailService] noop send password reset to=%s url=%s", toEmail, resetURL)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API
type ResendEmailService struct {
	from   string
	client *resend.Client
}

// NewResendEmailService создаёт сервис отправки через Resend
func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// SendPasswordReset отправляет письмо со ссылкой сброса пароля
func (s *ResendEmailService) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	if strings.TrimSpace(toEmail) == "" || strings.TrimSpace(resetURL) == "" {
		return fmt.Errorf("toEmail and resetURL are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Reset your ORION password",
		Text:    fmt.Sprintf("Follow this link to reset your password: %s\nThe link expires in 10 minutes.", resetURL),
		Html:    fmt.Sprintf("<p>Follow <a href=%q>this link</a> to reset your password.</p><p>The link expires in 10 minutes.</p>", resetURL),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		log.Printf("[EmailService] Ошибка отправки письма сброса пароля to=%s: %v", toEmail, err)
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
