package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/dto"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/mapper"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
)

type accountReader interface {
	GetAccount(ctx context.Context, userID string) (*service.Account, error)
}

// InternalController serves account state to sibling services.
type InternalController struct {
	accounts accountReader
	logger   logrus.FieldLogger
}

func NewInternalController(accounts accountReader) *InternalController {
	return &InternalController{
		accounts: accounts,
		logger:   factory.NewModuleLogger("internal-controller"),
	}
}

func (c *InternalController) GetAccount(ctx echo.Context) error {
	userID := ctx.Param("id")
	if userID == "" {
		return writeError(ctx, http.StatusBadRequest, "id is required")
	}

	account, err := c.accounts.GetAccount(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return writeError(ctx, http.StatusNotFound, "account not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).WithField("user_id", userID).Error("Get account failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.AccountToResponse(account.User, account.Subscription))
}

func (c *InternalController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}
