package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/mailer"
	"github.com/vibast-solutions/ms-go-accounts/app/metrics"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
)

type VerificationStatus struct {
	User          *entity.User
	CodeAvailable bool
}

type VerificationService struct {
	userRepo userRepository
	codeRepo verificationCodeRepository
	sender   mailer.Sender
	ttl      time.Duration
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewVerificationService(
	userRepo userRepository,
	codeRepo verificationCodeRepository,
	sender mailer.Sender,
	ttl time.Duration,
) *VerificationService {
	return &VerificationService{
		userRepo: userRepo,
		codeRepo: codeRepo,
		sender:   sender,
		ttl:      ttl,
		logger:   factory.NewModuleLogger("verification-service"),
		now:      time.Now,
	}
}

// Status reports whether the user holds a usable code. Expired codes are
// purged on the way.
func (s *VerificationService) Status(ctx context.Context, userID string) (*VerificationStatus, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &VerificationStatus{User: user}
	if user.EmailVerified {
		return status, nil
	}

	code, err := s.codeRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return status, nil
	}
	if !entity.IsWithinExpiration(code.ExpiresAt, s.now()) {
		if err := s.codeRepo.DeleteByUserID(ctx, userID); err != nil {
			return nil, err
		}
		return status, nil
	}

	status.CodeAvailable = true
	return status, nil
}

// RequestCode issues a fresh code for the user, replacing earlier ones.
func (s *VerificationService) RequestCode(ctx context.Context, userID string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.SendCode(ctx, user)
}

func (s *VerificationService) SendCode(ctx context.Context, user *entity.User) error {
	value, err := generateVerificationCode()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	code := &entity.VerificationCode{
		UserID:    user.ID,
		Code:      value,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.codeRepo.Replace(ctx, code); err != nil {
		return err
	}

	deliver(ctx, s.sender, s.logger, mailer.VerificationCodeMessage(user.Email, value, s.ttl))
	return nil
}

// VerifyCode marks the user verified when submitted matches the stored,
// unexpired code.
func (s *VerificationService) VerifyCode(ctx context.Context, userID, submitted string) error {
	stored, err := s.codeRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if stored != nil && !entity.IsWithinExpiration(stored.ExpiresAt, s.now()) {
		metrics.RecordVerification("expired")
		if err := s.codeRepo.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return ErrCodeExpired
	}
	if stored == nil || stored.Code != submitted {
		metrics.RecordVerification("invalid")
		return ErrInvalidCode
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.codeRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	metrics.RecordVerification("verified")
	return nil
}

func (s *VerificationService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
