package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	authclient "github.com/vibast-solutions/lib-go-auth/client"
	authmiddleware "github.com/vibast-solutions/lib-go-auth/middleware"
	authlibservice "github.com/vibast-solutions/lib-go-auth/service"
	"github.com/vibast-solutions/ms-go-accounts/app/controller"
	"github.com/vibast-solutions/ms-go-accounts/app/currency"
	grpcserver "github.com/vibast-solutions/ms-go-accounts/app/grpc"
	"github.com/vibast-solutions/ms-go-accounts/app/metrics"
	"github.com/vibast-solutions/ms-go-accounts/app/session"
	"github.com/vibast-solutions/ms-go-accounts/app/view"
	"github.com/vibast-solutions/ms-go-accounts/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start the web application (Echo) and the internal gRPC server for the accounts service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type controllers struct {
	auth         *controller.AuthController
	verification *controller.VerificationController
	billing      *controller.BillingController
	internal     *controller.InternalController
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	db := mustOpenDB(cfg)
	defer closeDB(db)

	svc := mustCreateServices(cfg, db)
	sessions := session.NewManager(cfg.Session)
	resolver := currency.NewResolver(cfg.Accounts.DefaultCurrency)

	ctrls := &controllers{
		auth:         controller.NewAuthController(svc.auth, svc.password, sessions),
		verification: controller.NewVerificationController(svc.verification, svc.auth, sessions),
		billing:      controller.NewBillingController(svc.subscription, svc.plan, resolver, svc.provider, sessions),
		internal:     controller.NewInternalController(svc.subscription),
	}

	authGRPCClient, err := authclient.NewGRPCClientFromAddr(context.Background(), cfg.InternalEndpoints.AuthGRPCAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize auth gRPC client")
	}
	defer authGRPCClient.Close()
	internalAuthService := authlibservice.NewInternalAuthService(authGRPCClient)
	echoInternalAuthMiddleware := authmiddleware.NewEchoInternalAuthMiddleware(internalAuthService)
	grpcInternalAuthMiddleware := authmiddleware.NewGRPCInternalAuthMiddleware(internalAuthService)

	renderer, err := view.NewRenderer()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse templates")
	}

	e := setupHTTPServer(cfg, renderer, sessions, ctrls, echoInternalAuthMiddleware)
	grpcSrv, healthSrv, lis := setupGRPCServer(cfg, grpcserver.NewServer(svc.subscription), grpcInternalAuthMiddleware)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthSrv.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	cfg *config.Config,
	renderer echo.Renderer,
	sessions *session.Manager,
	ctrls *controllers,
	internalAuthMiddleware *authmiddleware.EchoInternalAuthMiddleware,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
		RequestIDHandler: func(c echo.Context, id string) {
			c.Request().Header.Set(echo.HeaderXRequestID, id)
		},
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/webhooks/") || strings.HasPrefix(path, "/internal/")
		},
	}))
	e.Use(sessions.Middleware())

	e.GET("/health", ctrls.internal.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.GET("/", ctrls.billing.Home)
	e.GET("/plans", ctrls.billing.Plans)

	guest := session.RedirectIfAuthenticated(dashboardRoute)
	e.GET("/login", ctrls.auth.ShowLogin, guest)
	e.POST("/login", ctrls.auth.Login, guest)
	e.GET("/signup", ctrls.auth.ShowSignup, guest)
	e.POST("/signup", ctrls.auth.Signup, guest)
	e.POST("/logout", ctrls.auth.Logout)

	e.GET("/forgot-password", ctrls.auth.ShowForgotPassword, session.RedirectIfAuthenticated("/"))
	e.POST("/forgot-password", ctrls.auth.ForgotPassword)
	e.GET("/reset-password", ctrls.auth.ShowResetPassword)
	e.POST("/reset-password", ctrls.auth.ResetPassword)

	e.GET("/verify-email", ctrls.verification.Show)
	e.POST("/verify-email", ctrls.verification.Submit)

	member := session.RequireUser(loginRoute)
	e.GET("/dashboard", ctrls.billing.Dashboard, member)
	e.GET("/resources/stripe/create-subscription", ctrls.billing.CreateSubscription, member)

	webhooks := e.Group("/webhooks")
	webhooks.POST("/stripe", ctrls.billing.StripeWebhook)

	internal := e.Group("/internal", internalAuthMiddleware.RequireInternalAccess(cfg.App.ServiceName))
	internal.GET("/health", ctrls.internal.Health)
	internal.GET("/accounts/:id", ctrls.internal.GetAccount)

	return e
}

const (
	loginRoute     = "/login"
	dashboardRoute = "/dashboard"
)

func setupGRPCServer(
	cfg *config.Config,
	accountsServer *grpcserver.Server,
	internalAuthMiddleware *authmiddleware.GRPCInternalAuthMiddleware,
) (*grpc.Server, *health.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoveryInterceptor(),
			grpcserver.RequestIDInterceptor(),
			grpcserver.LoggingInterceptor(),
			internalAuthMiddleware.UnaryRequireInternalAccess(cfg.App.ServiceName),
		),
	)
	grpcserver.RegisterAccountsServiceServer(grpcSrv, accountsServer)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(grpcserver.AccountsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	return grpcSrv, healthSrv, lis
}
