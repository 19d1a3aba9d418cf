package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/mailer"
	"github.com/vibast-solutions/ms-go-accounts/app/metrics"
)

const resetTokenBytes = 32

var codeUpperBound = big.NewInt(1_000_000)

// generateVerificationCode returns a zero-padded 6-digit code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeUpperBound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// deliver hands msg to the sender. Failures are logged, never returned.
func deliver(ctx context.Context, sender mailer.Sender, logger logrus.FieldLogger, msg mailer.Message) {
	err := sender.Send(ctx, msg)
	metrics.RecordEmail(msg.Kind, err)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"kind": msg.Kind,
			"to":   msg.To,
		}).Error("email_send_failed")
	}
}
