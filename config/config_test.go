package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	setEnv(t, "SESSION_SECRET", "secret")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/accounts?parseTime=true")
	unsetEnv(t, "SESSION_SECRET")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing SESSION_SECRET")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/accounts?parseTime=true")
	setEnv(t, "SESSION_SECRET", "s3cr3t")
	setEnv(t, "APP_SERVICE_NAME", "accounts-test")
	setEnv(t, "APP_BASE_URL", "https://app.example.com/")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "GRPC_PORT", "9191")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_MAX_IDLE_CONNS", "8")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "VERIFICATION_CODE_TTL_MINUTES", "5")
	setEnv(t, "DEFAULT_CURRENCY", "EUR")
	setEnv(t, "COOKIE_SECURE", "true")
	setEnv(t, "MAIL_DRIVER", "SMTP")
	setEnv(t, "SMTP_PORT", "2525")
	unsetEnv(t, "RESET_TOKEN_TTL_MINUTES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "accounts-test" {
		t.Fatalf("unexpected app service name: %s", cfg.App.ServiceName)
	}
	if cfg.App.BaseURL != "https://app.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.App.BaseURL)
	}
	if cfg.HTTP.Port != "8181" || cfg.GRPC.Port != "9191" {
		t.Fatalf("unexpected ports: http=%s grpc=%s", cfg.HTTP.Port, cfg.GRPC.Port)
	}
	if cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.MaxIdleConns != 8 {
		t.Fatalf("unexpected mysql pool config: %+v", cfg.MySQL)
	}
	if cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("unexpected mysql lifetime: %v", cfg.MySQL.ConnMaxLifetime)
	}
	if cfg.Accounts.VerificationCodeTTL != 5*time.Minute {
		t.Fatalf("unexpected verification ttl: %v", cfg.Accounts.VerificationCodeTTL)
	}
	if cfg.Accounts.ResetTokenTTL != time.Hour {
		t.Fatalf("unexpected reset ttl: %v", cfg.Accounts.ResetTokenTTL)
	}
	if cfg.Accounts.DefaultCurrency != "eur" {
		t.Fatalf("expected lowercased currency, got %s", cfg.Accounts.DefaultCurrency)
	}
	if !cfg.Session.CookieSecure || cfg.Session.Secret != "s3cr3t" {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Mail.Driver != "smtp" || cfg.Mail.SMTPPort != 2525 {
		t.Fatalf("unexpected mail config: %+v", cfg.Mail)
	}
}
