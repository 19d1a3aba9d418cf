package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-accounts/app/service"
	"github.com/vibast-solutions/ms-go-accounts/config"
)

var cleanupWorker bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired verification codes and password reset tokens",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"cleanup",
			cleanupWorker,
			func(cfg *config.Config) time.Duration { return cfg.Jobs.CleanupInterval },
			func(s *service.CleanupService, ctx context.Context) error {
				result, err := s.Run(ctx)
				if err != nil {
					return err
				}
				logrus.WithFields(logrus.Fields{
					"job":                   "cleanup",
					"verification_codes":    result.VerificationCodes,
					"password_reset_tokens": result.PasswordResetTokens,
				}).Debug("Expired rows deleted")
				return nil
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().BoolVar(&cleanupWorker, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	worker bool,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.CleanupService, ctx context.Context) error,
) {
	cfg := mustLoadConfig()
	db := mustOpenDB(cfg)
	defer closeDB(db)

	cleanupService := mustCreateServices(cfg, db).cleanup

	if worker {
		runWorker(name, intervalResolver(cfg), cleanupService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(cleanupService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	cleanupService *service.CleanupService,
	fn func(s *service.CleanupService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(cleanupService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(cleanupService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
