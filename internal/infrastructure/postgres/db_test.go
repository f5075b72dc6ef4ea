package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewPoolWithConfigDefaults(t *testing.T) {
	ctx := context.Background()

	// using invalid URL should return error
	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid:5432/db",
		MaxConns:       1,
		ConnectTimeout: 500 * time.Millisecond,
	}

	if _, err := NewPoolWithConfig(ctx, cfg); err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestRunMigrationsMissingSource(t *testing.T) {
	err := RunMigrations("postgres://invalid:5432/db", t.TempDir()+"/missing", zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestSourceURL(t *testing.T) {
	tests := map[string]string{
		"migrations":               "file://migrations",
		"/srv/bookkeeper/schema":   "file:///srv/bookkeeper/schema",
		"file://migrations":        "file://migrations",
		"github://owner/repo/path": "github://owner/repo/path",
	}

	for in, want := range tests {
		if got := sourceURL(in); got != want {
			t.Fatalf("sourceURL(%q) = %q, want %q", in, got, want)
		}
	}
}
