package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/skurlov/identsvc/internal/server/config"
)

// SMTPNotifier sends verification and reset codes as plain-text emails.
type SMTPNotifier struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	appName  string
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		appName:  cfg.AppName,
	}
}

func (n *SMTPNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	subject := fmt.Sprintf("%s: verify your email", n.appName)
	body := fmt.Sprintf(
		"Your verification code is %s. It expires shortly; if you did not request it, ignore this message.",
		code,
	)
	return n.send(ctx, email, subject, body)
}

func (n *SMTPNotifier) SendPasswordResetCode(ctx context.Context, email, code string) error {
	subject := fmt.Sprintf("%s: password reset", n.appName)
	body := fmt.Sprintf(
		"Your password reset code is %s. It expires shortly; if you did not request a reset, ignore this message.",
		code,
	)
	return n.send(ctx, email, subject, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", n.from, n.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	return nil
}
