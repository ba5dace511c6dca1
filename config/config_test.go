package config

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseDurationWithDays(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"15m", 15 * time.Minute},
		{"2h30m", 2*time.Hour + 30*time.Minute},
		{"abc", 0},
		{"xd", 0},
	}
	for _, c := range cases {
		if got := parseDurationWithDays(c.in); got != c.want {
			t.Errorf("parseDurationWithDays(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" a:9092, b:9092 ,,")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected split result: %#v", got)
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", ":8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "velvetcakes")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_TTL", "")

	cfg := Load(zap.NewNop())

	if cfg.JWT.TTL != 7*24*time.Hour {
		t.Errorf("expected default JWT TTL of 7 days, got %v", cfg.JWT.TTL)
	}
	if cfg.DB.SSLMode != "disable" {
		t.Errorf("expected sslmode=disable by default, got %q", cfg.DB.SSLMode)
	}
	if cfg.Login.MaxAttempts != 5 {
		t.Errorf("expected 5 login attempts by default, got %d", cfg.Login.MaxAttempts)
	}
	if cfg.Cleanup.CartTTL != 30*24*time.Hour {
		t.Errorf("expected 30d cart ttl, got %v", cfg.Cleanup.CartTTL)
	}
}

func TestLoadFallsBackOnBadDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_TTL", "1w")
	t.Setenv("LOGIN_LOCK_WINDOW", "-5m")
	t.Setenv("CART_TTL", "0")
	t.Setenv("CLEANUP_INTERVAL", "soon")

	core, logs := observer.New(zap.WarnLevel)
	cfg := Load(zap.New(core))

	if cfg.JWT.TTL != 7*24*time.Hour {
		t.Errorf("JWT TTL = %v, want 7d default", cfg.JWT.TTL)
	}
	if cfg.Login.LockWindow != 15*time.Minute {
		t.Errorf("lock window = %v, want 15m default", cfg.Login.LockWindow)
	}
	if cfg.Cleanup.CartTTL != 30*24*time.Hour {
		t.Errorf("cart ttl = %v, want 30d default", cfg.Cleanup.CartTTL)
	}
	if cfg.Cleanup.Interval != time.Hour {
		t.Errorf("cleanup interval = %v, want 1h default", cfg.Cleanup.Interval)
	}
	if n := logs.FilterField(zap.String("key", "JWT_TTL")).Len(); n != 1 {
		t.Errorf("expected one warning for JWT_TTL, got %d", n)
	}
	if logs.Len() != 4 {
		t.Errorf("expected 4 warnings, got %d", logs.Len())
	}
}

func TestLoadPanicsOnMissingRequired(t *testing.T) {
	t.Setenv("APP_PORT", ":8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_HOST", "localhost")
	os.Unsetenv("DB_HOST")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing DB_HOST")
		}
	}()
	Load(zap.NewNop())
}
