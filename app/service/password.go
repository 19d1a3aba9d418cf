package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/mailer"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
	"golang.org/x/crypto/bcrypt"
)

type PasswordService struct {
	userRepo  userRepository
	tokenRepo passwordResetTokenRepository
	sender    mailer.Sender
	baseURL   string
	ttl       time.Duration
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewPasswordService(
	userRepo userRepository,
	tokenRepo passwordResetTokenRepository,
	sender mailer.Sender,
	baseURL string,
	ttl time.Duration,
) *PasswordService {
	return &PasswordService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		sender:    sender,
		baseURL:   baseURL,
		ttl:       ttl,
		logger:    factory.NewModuleLogger("password-service"),
		now:       time.Now,
	}
}

// RequestReset emails a reset link when email belongs to a user. It reports
// whether a link was sent.
func (s *PasswordService) RequestReset(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	raw, err := generateResetToken()
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	token := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return false, err
	}

	link := s.baseURL + "/reset-password?token=" + url.QueryEscape(raw)
	deliver(ctx, s.sender, s.logger, mailer.ResetPasswordMessage(user.Email, link, s.ttl))
	return true, nil
}

func (s *PasswordService) ValidateResetToken(ctx context.Context, raw string) (*entity.PasswordResetToken, error) {
	if raw == "" {
		return nil, ErrInvalidResetToken
	}

	token, err := s.tokenRepo.FindByTokenHash(ctx, hashToken(raw))
	if err != nil {
		return nil, err
	}
	if token == nil || !entity.IsWithinExpiration(token.ExpiresAt, s.now()) {
		return nil, ErrInvalidResetToken
	}
	return token, nil
}

// ResetPassword stores the new password and invalidates every outstanding
// reset link of the user.
func (s *PasswordService) ResetPassword(ctx context.Context, raw, password string) error {
	token, err := s.ValidateResetToken(ctx, raw)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, token.UserID, string(hash), s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	return s.tokenRepo.DeleteByUserID(ctx, token.UserID)
}
