package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-accounts/app/catalog"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/payment"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
	"github.com/vibast-solutions/ms-go-accounts/app/session"
	"github.com/vibast-solutions/ms-go-accounts/app/view"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = renderer
	return e
}

func newFormContext(e *echo.Echo, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withUser(ctx echo.Context, userID string) echo.Context {
	session.SetUserID(ctx, userID)
	return ctx
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

type fakeSessions struct {
	started string
	cleared bool
	err     error
}

func (f *fakeSessions) Start(_ echo.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.started = userID
	return nil
}

func (f *fakeSessions) Clear(_ echo.Context) {
	f.cleared = true
}

type fakeAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (*entity.User, error)
	signupFn func(ctx context.Context, email, password string) (*entity.User, error)
	getFn    func(ctx context.Context, id string) (*entity.User, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthService) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	return f.signupFn(ctx, email, password)
}

func (f *fakeAuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return f.getFn(ctx, id)
}

type fakePasswordService struct {
	requestFn  func(ctx context.Context, email string) (bool, error)
	validateFn func(ctx context.Context, raw string) (*entity.PasswordResetToken, error)
	resetFn    func(ctx context.Context, raw, password string) error
}

func (f *fakePasswordService) RequestReset(ctx context.Context, email string) (bool, error) {
	return f.requestFn(ctx, email)
}

func (f *fakePasswordService) ValidateResetToken(ctx context.Context, raw string) (*entity.PasswordResetToken, error) {
	return f.validateFn(ctx, raw)
}

func (f *fakePasswordService) ResetPassword(ctx context.Context, raw, password string) error {
	return f.resetFn(ctx, raw, password)
}

type fakeVerificationService struct {
	statusFn  func(ctx context.Context, userID string) (*service.VerificationStatus, error)
	requestFn func(ctx context.Context, userID string) error
	verifyFn  func(ctx context.Context, userID, code string) error
}

func (f *fakeVerificationService) Status(ctx context.Context, userID string) (*service.VerificationStatus, error) {
	return f.statusFn(ctx, userID)
}

func (f *fakeVerificationService) RequestCode(ctx context.Context, userID string) error {
	return f.requestFn(ctx, userID)
}

func (f *fakeVerificationService) VerifyCode(ctx context.Context, userID, code string) error {
	return f.verifyFn(ctx, userID, code)
}

type fakeSubscriptionService struct {
	bootstrapFn func(ctx context.Context, userID string, currency catalog.Currency) (*entity.Subscription, error)
	accountFn   func(ctx context.Context, userID string) (*service.Account, error)
	applyFn     func(ctx context.Context, update *payment.Subscription) error
}

func (f *fakeSubscriptionService) Bootstrap(ctx context.Context, userID string, currency catalog.Currency) (*entity.Subscription, error) {
	return f.bootstrapFn(ctx, userID, currency)
}

func (f *fakeSubscriptionService) GetAccount(ctx context.Context, userID string) (*service.Account, error) {
	return f.accountFn(ctx, userID)
}

func (f *fakeSubscriptionService) ApplyProviderUpdate(ctx context.Context, update *payment.Subscription) error {
	return f.applyFn(ctx, update)
}

type fakePlanService struct {
	plans []*entity.Plan
	err   error
}

func (f *fakePlanService) ListPlans(_ context.Context) ([]*entity.Plan, error) {
	return f.plans, f.err
}

type fixedCurrency catalog.Currency

func (f fixedCurrency) FromRequest(_ *http.Request) catalog.Currency {
	return catalog.Currency(f)
}

type fakeWebhookParser struct {
	event *payment.Event
	err   error
}

func (f *fakeWebhookParser) ParseWebhookEvent(_ []byte, _ string) (*payment.Event, error) {
	return f.event, f.err
}
