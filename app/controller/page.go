package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/dto"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/session"
	"github.com/vibast-solutions/ms-go-accounts/app/types"
	"github.com/vibast-solutions/ms-go-accounts/app/view"
)

const (
	loginPath              = "/login"
	dashboardPath          = "/dashboard"
	verifyEmailPath        = "/verify-email"
	createSubscriptionPath = "/resources/stripe/create-subscription"
)

func newPage(ctx echo.Context, title string, data interface{}) view.Page {
	token, _ := ctx.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	_, authenticated := session.UserID(ctx)
	return view.Page{
		Title:         title,
		CSRFToken:     token,
		Authenticated: authenticated,
		Data:          data,
	}
}

func asFieldErrors(err error) (types.FieldErrors, bool) {
	var fe types.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// renderError shows the generic error page.
func renderError(ctx echo.Context, status int, heading, message string) error {
	return ctx.Render(status, "error", newPage(ctx, heading, view.ErrorData{Heading: heading, Message: message}))
}

// renderFailure logs err and shows the generic 500 page.
func renderFailure(ctx echo.Context, logger logrus.FieldLogger, err error, msg string) error {
	factory.LoggerWithContext(logger, ctx).WithError(err).Error(msg)
	return renderError(ctx, http.StatusInternalServerError, "Something went wrong", "We could not complete your request. Please try again later.")
}

func writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
