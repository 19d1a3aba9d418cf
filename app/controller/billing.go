package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/catalog"
	"github.com/vibast-solutions/ms-go-accounts/app/dto"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/metrics"
	"github.com/vibast-solutions/ms-go-accounts/app/payment"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
	"github.com/vibast-solutions/ms-go-accounts/app/session"
	"github.com/vibast-solutions/ms-go-accounts/app/view"
)

const maxWebhookPayload = 65536

type subscriptionService interface {
	Bootstrap(ctx context.Context, userID string, currency catalog.Currency) (*entity.Subscription, error)
	GetAccount(ctx context.Context, userID string) (*service.Account, error)
	ApplyProviderUpdate(ctx context.Context, update *payment.Subscription) error
}

type planService interface {
	ListPlans(ctx context.Context) ([]*entity.Plan, error)
}

type currencyResolver interface {
	FromRequest(req *http.Request) catalog.Currency
}

type webhookParser interface {
	ParseWebhookEvent(payload []byte, signature string) (*payment.Event, error)
}

type BillingController struct {
	subscriptionService subscriptionService
	planService         planService
	currencies          currencyResolver
	webhooks            webhookParser
	sessions            sessionStore
	logger              logrus.FieldLogger
}

func NewBillingController(
	subscriptionService subscriptionService,
	planService planService,
	currencies currencyResolver,
	webhooks webhookParser,
	sessions sessionStore,
) *BillingController {
	return &BillingController{
		subscriptionService: subscriptionService,
		planService:         planService,
		currencies:          currencies,
		webhooks:            webhooks,
		sessions:            sessions,
		logger:              factory.NewModuleLogger("billing-controller"),
	}
}

func (c *BillingController) Home(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "home", newPage(ctx, "Welcome", nil))
}

// CreateSubscription puts a signed-in user on the free monthly plan and
// sends them to the dashboard.
func (c *BillingController) CreateSubscription(ctx echo.Context) error {
	userID, ok := session.UserID(ctx)
	if !ok {
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}

	currency := c.currencies.FromRequest(ctx.Request())
	_, err := c.subscriptionService.Bootstrap(ctx.Request().Context(), userID, currency)
	switch {
	case err == nil, errors.Is(err, service.ErrSubscriptionAlreadyExists):
		return ctx.Redirect(http.StatusSeeOther, dashboardPath)
	case errors.Is(err, service.ErrUserNotFound):
		c.sessions.Clear(ctx)
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	default:
		return renderFailure(ctx, c.logger.WithField("currency", currency), err, "Subscription bootstrap failed")
	}
}

func (c *BillingController) Dashboard(ctx echo.Context) error {
	userID, ok := session.UserID(ctx)
	if !ok {
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}

	account, err := c.subscriptionService.GetAccount(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.sessions.Clear(ctx)
			return ctx.Redirect(http.StatusSeeOther, loginPath)
		}
		return renderFailure(ctx, c.logger, err, "Dashboard load failed")
	}
	if account.Subscription == nil {
		return ctx.Redirect(http.StatusSeeOther, createSubscriptionPath)
	}

	return ctx.Render(http.StatusOK, "dashboard", newPage(ctx, "Dashboard", view.DashboardData{
		Email:         account.User.Email,
		EmailVerified: account.User.EmailVerified,
		Subscription:  account.Subscription,
	}))
}

func (c *BillingController) Plans(ctx echo.Context) error {
	plans, err := c.planService.ListPlans(ctx.Request().Context())
	if err != nil {
		return renderFailure(ctx, c.logger, err, "List plans failed")
	}

	currency := c.currencies.FromRequest(ctx.Request())
	return ctx.Render(http.StatusOK, "plans", newPage(ctx, "Plans", view.NewPlansData(plans, string(currency))))
}

func (c *BillingController) StripeWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookPayload))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "unreadable payload")
	}

	event, err := c.webhooks.ParseWebhookEvent(payload, ctx.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		metrics.RecordWebhookEvent("unknown", err)
		if errors.Is(err, payment.ErrInvalidSignature) {
			return writeError(ctx, http.StatusBadRequest, "invalid signature")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Webhook parse failed")
		return writeError(ctx, http.StatusBadRequest, "invalid payload")
	}

	logger := factory.LoggerWithContext(c.logger, ctx).WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	if event.Subscription == nil {
		metrics.RecordWebhookEvent(event.Type, nil)
		logger.Debug("Webhook event ignored")
		return ctx.JSON(http.StatusOK, &dto.WebhookResponse{Received: true})
	}

	err = c.subscriptionService.ApplyProviderUpdate(ctx.Request().Context(), event.Subscription)
	metrics.RecordWebhookEvent(event.Type, err)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			logger.WithField("subscription_id", event.Subscription.ID).Warn("Webhook for unknown subscription")
			return writeError(ctx, http.StatusNotFound, "subscription not found")
		}
		logger.WithError(err).Error("Apply provider update failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.WebhookResponse{Received: true})
}
