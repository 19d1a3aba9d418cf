package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
	"golang.org/x/crypto/bcrypt"
)

type codeSender interface {
	SendCode(ctx context.Context, user *entity.User) error
}

type AuthService struct {
	userRepo     userRepository
	customers    customerCreator
	verification codeSender
	logger       logrus.FieldLogger
	now          func() time.Time
}

func NewAuthService(userRepo userRepository, customers customerCreator, verification codeSender) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customers:    customers,
		verification: verification,
		logger:       factory.NewModuleLogger("auth-service"),
		now:          time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Signup registers the user together with a payment provider customer and
// sends the first verification code.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	customerID, err := s.customers.CreateCustomer(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CustomerID:   &customerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.verification.SendCode(ctx, user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("signup_verification_code_failed")
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
