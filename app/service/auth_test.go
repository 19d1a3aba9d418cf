package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
	"golang.org/x/crypto/bcrypt"
)

type fakeCodeSender struct {
	calls int
	err   error
}

func (f *fakeCodeSender) SendCode(context.Context, *entity.User) error {
	f.calls++
	return f.err
}

func TestLoginChecksPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	users := &mockUserRepo{findByEmailFn: func(context.Context, string) (*entity.User, error) {
		return &entity.User{ID: "u-1", PasswordHash: string(hash)}, nil
	}}
	svc := NewAuthService(users, &fakeProvider{}, &fakeCodeSender{})

	user, err := svc.Login(context.Background(), "a@b.c", "correct-horse")
	if err != nil || user.ID != "u-1" {
		t.Fatalf("expected login success, got %+v, %v", user, err)
	}

	if _, err := svc.Login(context.Background(), "a@b.c", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &fakeProvider{}, &fakeCodeSender{})

	if _, err := svc.Login(context.Background(), "a@b.c", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupCreatesCustomerAndSendsCode(t *testing.T) {
	var created *entity.User
	codes := &fakeCodeSender{}
	svc := NewAuthService(&mockUserRepo{createFn: func(_ context.Context, user *entity.User) error {
		created = user
		return nil
	}}, &fakeProvider{customerID: "cus_9"}, codes)

	user, err := svc.Signup(context.Background(), "a@b.c", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil || created.ID == "" || user.ID != created.ID {
		t.Fatalf("unexpected created user: %+v", created)
	}
	if !created.HasCustomer() || *created.CustomerID != "cus_9" {
		t.Fatalf("expected customer id stored, got %+v", created.CustomerID)
	}
	if created.EmailVerified {
		t.Fatal("new users start unverified")
	}
	if codes.calls != 1 {
		t.Fatalf("expected one verification code, got %d", codes.calls)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{findByEmailFn: func(context.Context, string) (*entity.User, error) {
		return &entity.User{ID: "u-1"}, nil
	}}, &fakeProvider{}, &fakeCodeSender{})

	if _, err := svc.Signup(context.Background(), "a@b.c", "password123"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	svc = NewAuthService(&mockUserRepo{createFn: func(context.Context, *entity.User) error {
		return repository.ErrUserAlreadyExists
	}}, &fakeProvider{customerID: "cus_1"}, &fakeCodeSender{})
	if _, err := svc.Signup(context.Background(), "a@b.c", "password123"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken on insert race, got %v", err)
	}
}

func TestSignupProviderFailureCreatesNoUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{createFn: func(context.Context, *entity.User) error {
		t.Fatal("user must not be created")
		return nil
	}}, &fakeProvider{customerErr: errors.New("stripe down")}, &fakeCodeSender{})

	if _, err := svc.Signup(context.Background(), "a@b.c", "password123"); err == nil {
		t.Fatal("expected error")
	}
}
