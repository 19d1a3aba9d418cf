package cmd

import (
	"database/sql"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/mailer"
	"github.com/vibast-solutions/ms-go-accounts/app/payment"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
	"github.com/vibast-solutions/ms-go-accounts/config"

	_ "github.com/go-sql-driver/mysql"
)

type services struct {
	provider     payment.Provider
	auth         *service.AuthService
	password     *service.PasswordService
	verification *service.VerificationService
	subscription *service.SubscriptionService
	plan         *service.PlanService
	cleanup      *service.CleanupService
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func mustOpenDB(cfg *config.Config) *sql.DB {
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close database")
	}
}

func newPaymentProvider(cfg *config.Config) payment.Provider {
	if cfg.Stripe.SecretKey == "" {
		logrus.Warn("STRIPE_SECRET_KEY not set, using stub payment provider")
		return payment.NewStubProvider(factory.NewModuleLogger("payment-stub"))
	}
	return payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
}

func mustCreateServices(cfg *config.Config, db *sql.DB) *services {
	sender, err := mailer.NewSender(cfg.Mail, factory.NewModuleLogger("mailer"))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize mail sender")
	}
	provider := newPaymentProvider(cfg)

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	tokenRepo := repository.NewPasswordResetTokenRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	verification := service.NewVerificationService(userRepo, codeRepo, sender, cfg.Accounts.VerificationCodeTTL)

	return &services{
		provider:     provider,
		auth:         service.NewAuthService(userRepo, provider, verification),
		password:     service.NewPasswordService(userRepo, tokenRepo, sender, cfg.App.BaseURL, cfg.Accounts.ResetTokenTTL),
		verification: verification,
		subscription: service.NewSubscriptionService(userRepo, subscriptionRepo, planRepo, provider),
		plan:         service.NewPlanService(planRepo, provider),
		cleanup:      service.NewCleanupService(codeRepo, tokenRepo),
	}
}
