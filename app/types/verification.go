package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	IntentRequestCode = "requestCode"
	IntentVerifyCode  = "verifyCode"
)

type VerifyEmailRequest struct {
	Intent string
	Email  string
	Code   string
}

func NewVerifyEmailRequestFromContext(ctx echo.Context) (*VerifyEmailRequest, error) {
	return &VerifyEmailRequest{
		Intent: strings.TrimSpace(ctx.FormValue("intent")),
		Email:  normalizeEmail(ctx.FormValue("email")),
		Code:   strings.TrimSpace(ctx.FormValue("code")),
	}, nil
}

type requestCodeForm struct {
	Email string `form:"email" validate:"required,email"`
}

type verifyCodeForm struct {
	Code string `form:"code" validate:"required"`
}

// Validate checks the fields the selected intent needs.
func (r *VerifyEmailRequest) Validate() error {
	switch r.Intent {
	case IntentRequestCode:
		return validateFields(&requestCodeForm{Email: r.Email}, messages{
			"email": {"required": "Please enter email to continue", "email": "Please enter a valid email"},
		})
	case IntentVerifyCode:
		return validateFields(&verifyCodeForm{Code: r.Code}, messages{
			"code": {"required": "Please enter a verification code"},
		})
	default:
		return ErrUnknownIntent
	}
}
