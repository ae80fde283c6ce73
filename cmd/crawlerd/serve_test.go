package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/WebDevelopersofficial/crawler-api/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has addr flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultAddr {
			t.Errorf("expected default %q, got %q", config.DefaultAddr, flag.DefValue)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
	})

	t.Run("has max-urls flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-urls")
		if flag == nil {
			t.Fatal("expected max-urls flag")
		}
		if flag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", flag.Shorthand)
		}
	})

	t.Run("has max-body-size flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-body-size")
		if flag == nil {
			t.Fatal("expected max-body-size flag")
		}
	})

	t.Run("has user-agent flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("user-agent")
		if flag == nil {
			t.Fatal("expected user-agent flag")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})
}

// TestBuildConfig tests config construction from flags and config files.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{
			"--addr", ":9090",
			"--timeout", "3s",
			"--concurrency", "8",
			"--max-urls", "50",
		}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Addr != ":9090" {
			t.Errorf("expected addr ':9090', got %q", cfg.Addr)
		}
		if cfg.FetchTimeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", cfg.FetchTimeout)
		}
		if cfg.Concurrency != 8 {
			t.Errorf("expected concurrency 8, got %d", cfg.Concurrency)
		}
		if cfg.MaxURLs != 50 {
			t.Errorf("expected max urls 50, got %d", cfg.MaxURLs)
		}
		// Untouched settings keep their defaults.
		if cfg.UserAgent != config.DefaultUserAgent {
			t.Errorf("expected default user agent, got %q", cfg.UserAgent)
		}
	})

	t.Run("config file values apply", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, ".crawlerd")
		content := "addr: \":7070\"\nfetchTimeout: \"2s\"\nconcurrency: 3\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Addr != ":7070" {
			t.Errorf("expected addr ':7070', got %q", cfg.Addr)
		}
		if cfg.FetchTimeout != 2*time.Second {
			t.Errorf("expected timeout 2s, got %v", cfg.FetchTimeout)
		}
		if cfg.Concurrency != 3 {
			t.Errorf("expected concurrency 3, got %d", cfg.Concurrency)
		}
	})

	t.Run("explicit flags win over config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, ".crawlerd")
		if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"--config", path, "--addr", ":9999"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Addr != ":9999" {
			t.Errorf("expected flag to win with ':9999', got %q", cfg.Addr)
		}
	})

	t.Run("missing explicit config file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/.crawlerd"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		if _, err := buildConfig(cmd); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestSetupLogger tests logger creation.
func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("default logger", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(false)
		if logger == nil {
			t.Fatal("expected non-nil logger")
		}
	})

	t.Run("verbose logger", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(true)
		if logger == nil {
			t.Fatal("expected non-nil logger")
		}
	})
}
