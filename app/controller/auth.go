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
	"github.com/vibast-solutions/ms-go-accounts/app/types"
	"github.com/vibast-solutions/ms-go-accounts/app/view"
)

type authService interface {
	Login(ctx context.Context, email, password string) (*entity.User, error)
	Signup(ctx context.Context, email, password string) (*entity.User, error)
}

type passwordService interface {
	RequestReset(ctx context.Context, email string) (bool, error)
	ValidateResetToken(ctx context.Context, raw string) (*entity.PasswordResetToken, error)
	ResetPassword(ctx context.Context, raw, password string) error
}

type sessionStore interface {
	Start(c echo.Context, userID string) error
	Clear(c echo.Context)
}

type AuthController struct {
	authService     authService
	passwordService passwordService
	sessions        sessionStore
	logger          logrus.FieldLogger
}

func NewAuthController(authService authService, passwordService passwordService, sessions sessionStore) *AuthController {
	return &AuthController{
		authService:     authService,
		passwordService: passwordService,
		sessions:        sessions,
		logger:          factory.NewModuleLogger("auth-controller"),
	}
}

func (c *AuthController) ShowLogin(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login", newPage(ctx, "Log in", nil))
}

func (c *AuthController) Login(ctx echo.Context) error {
	req, err := types.NewLoginRequestFromContext(ctx)
	if err != nil {
		return renderError(ctx, http.StatusBadRequest, "Bad request", "invalid form")
	}

	page := newPage(ctx, "Log in", nil)
	page.Form = map[string]string{"email": req.Email}
	if err := req.Validate(); err != nil {
		if fe, ok := asFieldErrors(err); ok {
			page.Errors = fe
			return ctx.Render(http.StatusUnprocessableEntity, "login", page)
		}
		return renderFailure(ctx, c.logger, err, "Login validation failed")
	}

	user, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			page.Errors = map[string]string{"form": "Invalid email or password"}
			return ctx.Render(http.StatusUnauthorized, "login", page)
		}
		return renderFailure(ctx, c.logger, err, "Login failed")
	}

	if err := c.sessions.Start(ctx, user.ID); err != nil {
		return renderFailure(ctx, c.logger, err, "Session start failed")
	}
	if !user.EmailVerified {
		return ctx.Redirect(http.StatusSeeOther, verifyEmailPath)
	}
	return ctx.Redirect(http.StatusSeeOther, dashboardPath)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	c.sessions.Clear(ctx)
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (c *AuthController) ShowSignup(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "signup", newPage(ctx, "Sign up", nil))
}

func (c *AuthController) Signup(ctx echo.Context) error {
	req, err := types.NewSignupRequestFromContext(ctx)
	if err != nil {
		return renderError(ctx, http.StatusBadRequest, "Bad request", "invalid form")
	}

	page := newPage(ctx, "Sign up", nil)
	page.Form = map[string]string{"email": req.Email}
	if err := req.Validate(); err != nil {
		if fe, ok := asFieldErrors(err); ok {
			page.Errors = fe
			return ctx.Render(http.StatusUnprocessableEntity, "signup", page)
		}
		return renderFailure(ctx, c.logger, err, "Signup validation failed")
	}

	user, err := c.authService.Signup(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			page.Errors = map[string]string{"email": "An account with this email already exists"}
			return ctx.Render(http.StatusUnprocessableEntity, "signup", page)
		}
		return renderFailure(ctx, c.logger, err, "Signup failed")
	}

	if err := c.sessions.Start(ctx, user.ID); err != nil {
		return renderFailure(ctx, c.logger, err, "Session start failed")
	}
	return ctx.Redirect(http.StatusSeeOther, verifyEmailPath)
}

func (c *AuthController) ShowForgotPassword(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "forgot_password", newPage(ctx, "Forgot password", view.ForgotPasswordData{}))
}

// ForgotPassword emails a reset link when the address is registered. Unknown
// addresses get the plain form back.
func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	req, err := types.NewForgotPasswordRequestFromContext(ctx)
	if err != nil {
		return renderError(ctx, http.StatusBadRequest, "Bad request", "invalid form")
	}

	page := newPage(ctx, "Forgot password", view.ForgotPasswordData{})
	page.Form = map[string]string{"email": req.Email}
	if err := req.Validate(); err != nil {
		if fe, ok := asFieldErrors(err); ok {
			page.Errors = fe
			return ctx.Render(http.StatusUnprocessableEntity, "forgot_password", page)
		}
		return renderFailure(ctx, c.logger, err, "Forgot password validation failed")
	}

	sent, err := c.passwordService.RequestReset(ctx.Request().Context(), req.Email)
	if err != nil {
		return renderFailure(ctx, c.logger, err, "Password reset request failed")
	}

	page.Data = view.ForgotPasswordData{EmailSent: sent}
	return ctx.Render(http.StatusOK, "forgot_password", page)
}

func (c *AuthController) ShowResetPassword(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if _, err := c.passwordService.ValidateResetToken(ctx.Request().Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			return ctx.Render(http.StatusOK, "reset_password", newPage(ctx, "Reset password", view.ResetPasswordData{Invalid: true}))
		}
		return renderFailure(ctx, c.logger, err, "Reset token lookup failed")
	}
	return ctx.Render(http.StatusOK, "reset_password", newPage(ctx, "Reset password", view.ResetPasswordData{Token: token}))
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	req, err := types.NewResetPasswordRequestFromContext(ctx)
	if err != nil {
		return renderError(ctx, http.StatusBadRequest, "Bad request", "invalid form")
	}

	page := newPage(ctx, "Reset password", view.ResetPasswordData{Token: req.Token})
	if err := req.Validate(); err != nil {
		if fe, ok := asFieldErrors(err); ok {
			if _, missingToken := fe["token"]; missingToken {
				page.Data = view.ResetPasswordData{Invalid: true}
			}
			page.Errors = fe
			return ctx.Render(http.StatusUnprocessableEntity, "reset_password", page)
		}
		return renderFailure(ctx, c.logger, err, "Reset password validation failed")
	}

	if err := c.passwordService.ResetPassword(ctx.Request().Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			page.Data = view.ResetPasswordData{Invalid: true}
			return ctx.Render(http.StatusOK, "reset_password", page)
		}
		return renderFailure(ctx, c.logger, err, "Reset password failed")
	}

	return ctx.Redirect(http.StatusSeeOther, loginPath)
}
