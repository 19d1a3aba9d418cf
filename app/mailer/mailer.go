package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/config"
)

const (
	KindResetPassword    = "reset_password"
	KindVerificationCode = "verification_code"
)

type Message struct {
	Kind    string
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender picks the transport configured by MAIL_DRIVER.
func NewSender(cfg config.MailConfig, logger logrus.FieldLogger) (Sender, error) {
	switch cfg.Driver {
	case "smtp":
		return NewSMTPSender(cfg)
	case "", "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

func ResetPasswordMessage(to, link string, ttl time.Duration) Message {
	return Message{
		Kind:    KindResetPassword,
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"We received a request to reset your password.\n\nOpen the link below to choose a new one:\n%s\n\nThe link expires in %s. If you did not ask for a reset you can ignore this email.\n",
			link, humanDuration(ttl),
		),
	}
}

func VerificationCodeMessage(to, code string, ttl time.Duration) Message {
	return Message{
		Kind:    KindVerificationCode,
		To:      to,
		Subject: "Your verification code",
		Body: fmt.Sprintf(
			"Your verification code is %s\n\nIt expires in %s.\n",
			code, humanDuration(ttl),
		),
	}
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	minutes := int(d / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
