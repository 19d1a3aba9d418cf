package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type ForgotPasswordRequest struct {
	Email string `form:"email" validate:"required,email"`
}

func NewForgotPasswordRequestFromContext(ctx echo.Context) (*ForgotPasswordRequest, error) {
	return &ForgotPasswordRequest{Email: normalizeEmail(ctx.FormValue("email"))}, nil
}

func (r *ForgotPasswordRequest) Validate() error {
	return validateFields(r, messages{
		"email": {"required": "Email is required", "email": "Email is invalid"},
	})
}

type ResetPasswordRequest struct {
	Token           string `form:"token" validate:"required"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

func NewResetPasswordRequestFromContext(ctx echo.Context) (*ResetPasswordRequest, error) {
	return &ResetPasswordRequest{
		Token:           strings.TrimSpace(ctx.FormValue("token")),
		Password:        ctx.FormValue("password"),
		ConfirmPassword: ctx.FormValue("confirm_password"),
	}, nil
}

func (r *ResetPasswordRequest) Validate() error {
	return validateFields(r, messages{
		"token":            {"required": "Reset link is invalid"},
		"password":         {"required": "Password is required", "min": "Password must be at least 8 characters"},
		"confirm_password": {"eqfield": "Passwords do not match"},
	})
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	return &LoginRequest{
		Email:    normalizeEmail(ctx.FormValue("email")),
		Password: ctx.FormValue("password"),
	}, nil
}

func (r *LoginRequest) Validate() error {
	return validateFields(r, messages{
		"email":    {"required": "Email is required", "email": "Email is invalid"},
		"password": {"required": "Password is required"},
	})
}

type SignupRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

func NewSignupRequestFromContext(ctx echo.Context) (*SignupRequest, error) {
	return &SignupRequest{
		Email:    normalizeEmail(ctx.FormValue("email")),
		Password: ctx.FormValue("password"),
	}, nil
}

func (r *SignupRequest) Validate() error {
	return validateFields(r, messages{
		"email":    {"required": "Email is required", "email": "Email is invalid"},
		"password": {"required": "Password is required", "min": "Password must be at least 8 characters"},
	})
}
