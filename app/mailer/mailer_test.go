package mailer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibast-solutions/ms-go-accounts/config"
)

func TestNewSenderSelectsDriver(t *testing.T) {
	logger := logrus.New()

	sender, err := NewSender(config.MailConfig{Driver: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, sender)

	sender, err = NewSender(config.MailConfig{Driver: "smtp", SMTPHost: "localhost", SMTPPort: 2525, From: "no-reply@example.com"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, sender)

	_, err = NewSender(config.MailConfig{Driver: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestResetPasswordMessage(t *testing.T) {
	msg := ResetPasswordMessage("a@b.c", "https://app.example.com/reset-password?token=abc", time.Hour)

	assert.Equal(t, KindResetPassword, msg.Kind)
	assert.Equal(t, "a@b.c", msg.To)
	assert.Contains(t, msg.Body, "https://app.example.com/reset-password?token=abc")
	assert.Contains(t, msg.Body, "1 hour")
}

func TestVerificationCodeMessage(t *testing.T) {
	msg := VerificationCodeMessage("a@b.c", "123456", 15*time.Minute)

	assert.Equal(t, KindVerificationCode, msg.Kind)
	assert.Contains(t, msg.Body, "123456")
	assert.Contains(t, msg.Body, "15 minutes")
}

func TestLogSenderWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	err := NewLogSender(logger).Send(context.Background(), VerificationCodeMessage("a@b.c", "654321", time.Minute))

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"a@b.c"`)
	assert.Contains(t, buf.String(), "654321")
}

func TestBuildMsgRejectsBadRecipient(t *testing.T) {
	_, err := buildMsg("no-reply@example.com", Message{To: "not an address"})
	assert.Error(t, err)

	m, err := buildMsg("no-reply@example.com", Message{To: "a@b.c", Subject: "hi", Body: "body"})
	require.NoError(t, err)
	assert.Equal(t, []string{"<a@b.c>"}, m.GetToString())
}
