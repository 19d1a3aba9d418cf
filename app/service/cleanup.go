package service

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/metrics"
)

type CleanupResult struct {
	VerificationCodes   int64
	PasswordResetTokens int64
}

type CleanupService struct {
	codeRepo  verificationCodeRepository
	tokenRepo passwordResetTokenRepository
	now       func() time.Time
}

func NewCleanupService(codeRepo verificationCodeRepository, tokenRepo passwordResetTokenRepository) *CleanupService {
	return &CleanupService{codeRepo: codeRepo, tokenRepo: tokenRepo, now: time.Now}
}

// Run deletes expired verification codes and reset tokens.
func (s *CleanupService) Run(ctx context.Context) (*CleanupResult, error) {
	now := s.now().UTC()

	codes, err := s.codeRepo.DeleteExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	metrics.RecordCleanup("verification_codes", codes)

	tokens, err := s.tokenRepo.DeleteExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	metrics.RecordCleanup("password_reset_tokens", tokens)

	return &CleanupResult{VerificationCodes: codes, PasswordResetTokens: tokens}, nil
}
