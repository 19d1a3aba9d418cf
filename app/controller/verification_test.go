package controller

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
)

func newVerificationController(verification *fakeVerificationService, sessions *fakeSessions) *VerificationController {
	users := &fakeAuthService{getFn: func(_ context.Context, id string) (*entity.User, error) {
		if id == "missing" {
			return nil, service.ErrUserNotFound
		}
		return &entity.User{ID: id, Email: "user@example.com"}, nil
	}}
	return NewVerificationController(verification, users, sessions)
}

func TestVerifyEmailShowRequiresSession(t *testing.T) {
	e := newTestEcho(t)
	ctrl := newVerificationController(&fakeVerificationService{}, &fakeSessions{})

	ctx, rec := newFormContext(e, http.MethodGet, "/verify-email", nil)
	if err := ctrl.Show(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRedirect(t, rec, "/login")
}

func TestVerifyEmailShowVerifiedUser(t *testing.T) {
	e := newTestEcho(t)
	verification := &fakeVerificationService{statusFn: func(_ context.Context, userID string) (*service.VerificationStatus, error) {
		return &service.VerificationStatus{User: &entity.User{ID: userID, EmailVerified: true}}, nil
	}}
	ctrl := newVerificationController(verification, &fakeSessions{})

	ctx, rec := newFormContext(e, http.MethodGet, "/verify-email", nil)
	if err := ctrl.Show(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRedirect(t, rec, "/dashboard")
}

func TestVerifyEmailShowCodeState(t *testing.T) {
	e := newTestEcho(t)
	available := false
	verification := &fakeVerificationService{statusFn: func(_ context.Context, userID string) (*service.VerificationStatus, error) {
		return &service.VerificationStatus{
			User:          &entity.User{ID: userID, Email: "user@example.com"},
			CodeAvailable: available,
		}, nil
	}}
	ctrl := newVerificationController(verification, &fakeSessions{})

	ctx, rec := newFormContext(e, http.MethodGet, "/verify-email", nil)
	if err := ctrl.Show(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Send code") {
		t.Fatal("expected request form when no code is available")
	}

	available = true
	ctx, rec = newFormContext(e, http.MethodGet, "/verify-email", nil)
	if err := ctrl.Show(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Enter a verification code") {
		t.Fatal("expected code form when a code is available")
	}
}

func TestVerifyEmailShowMissingUser(t *testing.T) {
	e := newTestEcho(t)
	sessions := &fakeSessions{}
	verification := &fakeVerificationService{statusFn: func(context.Context, string) (*service.VerificationStatus, error) {
		return nil, service.ErrUserNotFound
	}}
	ctrl := newVerificationController(verification, sessions)

	ctx, rec := newFormContext(e, http.MethodGet, "/verify-email", nil)
	if err := ctrl.Show(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRedirect(t, rec, "/login")
	if !sessions.cleared {
		t.Fatal("expected session cleared")
	}
}

func TestVerifyEmailUnknownIntent(t *testing.T) {
	e := newTestEcho(t)
	ctrl := newVerificationController(&fakeVerificationService{}, &fakeSessions{})

	ctx, rec := newFormContext(e, http.MethodPost, "/verify-email", url.Values{"intent": {"dance"}})
	if err := ctrl.Submit(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unknown intent") {
		t.Fatal("expected unknown intent message")
	}
}

func TestVerifyEmailRequestCode(t *testing.T) {
	e := newTestEcho(t)
	requested := ""
	verification := &fakeVerificationService{requestFn: func(_ context.Context, userID string) error {
		requested = userID
		return nil
	}}
	ctrl := newVerificationController(verification, &fakeSessions{})

	ctx, rec := newFormContext(e, http.MethodPost, "/verify-email", url.Values{"intent": {"requestCode"}, "email": {"bad"}})
	if err := ctrl.Submit(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Please enter a valid email") {
		t.Fatalf("expected email field error, got %d", rec.Code)
	}
	if requested != "" {
		t.Fatal("expected no code request on invalid email")
	}

	ctx, rec = newFormContext(e, http.MethodPost, "/verify-email", url.Values{"intent": {"requestCode"}, "email": {"user@example.com"}})
	if err := ctrl.Submit(withUser(ctx, "u1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if requested != "u1" {
		t.Fatalf("expected code requested for u1, got %q", requested)
	}
	if !strings.Contains(rec.Body.String(), "Enter a verification code") {
		t.Fatal("expected code form after requesting a code")
	}
}

func TestVerifyEmailVerifyCode(t *testing.T) {
	e := newTestEcho(t)
	verification := &fakeVerificationService{verifyFn: func(_ context.Context, _ string, code string) error {
		switch code {
		case "123456":
			return nil
		case "000000":
			return service.ErrCodeExpired
		default:
			return service.ErrInvalidCode
		}
	}}
	ctrl := newVerificationController(verification, &fakeSessions{})

	cases := []struct {
		code   string
		status int
		want   string
	}{
		{code: "", status: http.StatusUnprocessableEntity, want: "Please enter a verification code"},
		{code: "999999", status: http.StatusUnprocessableEntity, want: msgInvalidCode},
		{code: "000000", status: http.StatusUnprocessableEntity, want: msgCodeExpired},
		{code: "123456", status: http.StatusOK, want: "Email verified"},
	}
	for _, tc := range cases {
		ctx, rec := newFormContext(e, http.MethodPost, "/verify-email", url.Values{"intent": {"verifyCode"}, "code": {tc.code}})
		if err := ctrl.Submit(withUser(ctx, "u1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != tc.status {
			t.Fatalf("code %q: expected %d, got %d", tc.code, tc.status, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("code %q: expected %q in body", tc.code, tc.want)
		}
	}
}

func TestVerifyEmailSubmitMissingUser(t *testing.T) {
	e := newTestEcho(t)
	sessions := &fakeSessions{}
	ctrl := newVerificationController(&fakeVerificationService{}, sessions)

	ctx, rec := newFormContext(e, http.MethodPost, "/verify-email", url.Values{"intent": {"verifyCode"}, "code": {"1"}})
	if err := ctrl.Submit(withUser(ctx, "missing")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertRedirect(t, rec, "/login")
	if !sessions.cleared {
		t.Fatal("expected session cleared")
	}
}
