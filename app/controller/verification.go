package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
	"github.com/vibast-solutions/ms-go-accounts/app/session"
	"github.com/vibast-solutions/ms-go-accounts/app/types"
	"github.com/vibast-solutions/ms-go-accounts/app/view"
)

const (
	msgInvalidCode = "Please enter a valid code"
	msgCodeExpired = "Verification code has expired, please request a new one"
)

type verificationService interface {
	Status(ctx context.Context, userID string) (*service.VerificationStatus, error)
	RequestCode(ctx context.Context, userID string) error
	VerifyCode(ctx context.Context, userID, code string) error
}

type userLookup interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
}

type VerificationController struct {
	verificationService verificationService
	users               userLookup
	sessions            sessionStore
	logger              logrus.FieldLogger
}

func NewVerificationController(verificationService verificationService, users userLookup, sessions sessionStore) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
		users:               users,
		sessions:            sessions,
		logger:              factory.NewModuleLogger("verification-controller"),
	}
}

func (c *VerificationController) Show(ctx echo.Context) error {
	userID, ok := session.UserID(ctx)
	if !ok {
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}

	status, err := c.verificationService.Status(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.sessions.Clear(ctx)
			return ctx.Redirect(http.StatusSeeOther, loginPath)
		}
		return renderFailure(ctx, c.logger, err, "Verification status failed")
	}
	if status.User.EmailVerified {
		return ctx.Redirect(http.StatusSeeOther, dashboardPath)
	}

	return ctx.Render(http.StatusOK, "verify_email", newPage(ctx, "Verify email", view.VerifyEmailData{
		Email:         status.User.Email,
		CodeAvailable: status.CodeAvailable,
	}))
}

func (c *VerificationController) Submit(ctx echo.Context) error {
	userID, ok := session.UserID(ctx)
	if !ok {
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}

	req, err := types.NewVerifyEmailRequestFromContext(ctx)
	if err != nil {
		return renderError(ctx, http.StatusBadRequest, "Bad request", "invalid form")
	}
	if req.Intent != types.IntentRequestCode && req.Intent != types.IntentVerifyCode {
		return renderError(ctx, http.StatusBadRequest, "Bad request", types.ErrUnknownIntent.Error())
	}

	user, err := c.users.GetUser(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.sessions.Clear(ctx)
			return ctx.Redirect(http.StatusSeeOther, loginPath)
		}
		return renderFailure(ctx, c.logger, err, "User lookup failed")
	}

	data := view.VerifyEmailData{Email: user.Email, CodeAvailable: req.Intent == types.IntentVerifyCode}
	page := newPage(ctx, "Verify email", data)

	if err := req.Validate(); err != nil {
		if fe, ok := asFieldErrors(err); ok {
			page.Errors = fe
			return ctx.Render(http.StatusUnprocessableEntity, "verify_email", page)
		}
		return renderError(ctx, http.StatusBadRequest, "Bad request", err.Error())
	}

	if req.Intent == types.IntentRequestCode {
		if err := c.verificationService.RequestCode(ctx.Request().Context(), userID); err != nil {
			return renderFailure(ctx, c.logger, err, "Request verification code failed")
		}
		data.CodeAvailable = true
		page.Data = data
		return ctx.Render(http.StatusOK, "verify_email", page)
	}

	if err := c.verificationService.VerifyCode(ctx.Request().Context(), userID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			page.Errors = map[string]string{"code": msgInvalidCode}
			return ctx.Render(http.StatusUnprocessableEntity, "verify_email", page)
		case errors.Is(err, service.ErrCodeExpired):
			page.Errors = map[string]string{"code": msgCodeExpired}
			return ctx.Render(http.StatusUnprocessableEntity, "verify_email", page)
		default:
			return renderFailure(ctx, c.logger, err, "Verify code failed")
		}
	}

	data.Verified = true
	page.Data = data
	return ctx.Render(http.StatusOK, "verify_email", page)
}
