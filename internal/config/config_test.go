package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SDI_ENDPOINT", "https://sdi.example.com/api")
	t.Setenv("SDI_USERNAME", "acme")
	t.Setenv("SDI_API_TOKEN", "s3cr3t")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 3600*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout)
	}
	if cfg.ConnectTimeout != 120*time.Second {
		t.Fatalf("ConnectTimeout = %v", cfg.ConnectTimeout)
	}
	if cfg.InsecureSkipVerify {
		t.Fatalf("TLS verification must be on by default")
	}
	if cfg.PollInterval != 300*time.Second {
		t.Fatalf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.StorageType != "bbolt" {
		t.Fatalf("StorageType = %s", cfg.StorageType)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("SDI_TIMEOUT_SECONDS", "30")
	t.Setenv("SDI_CONNECT_TIMEOUT_SECONDS", "5")
	t.Setenv("SDI_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 30*time.Second || cfg.ConnectTimeout != 5*time.Second {
		t.Fatalf("timeouts = %v / %v", cfg.Timeout, cfg.ConnectTimeout)
	}
	if !cfg.InsecureSkipVerify {
		t.Fatalf("expected insecure flag from env")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %s", cfg.LogLevel)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("SDI_ENDPOINT", "https://sdi.example.com/api")
	t.Setenv("SDI_USERNAME", "")
	t.Setenv("SDI_API_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("SDI_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestRedactedHidesToken(t *testing.T) {
	cfg := Config{APIToken: "s3cr3t"}
	if cfg.Redacted().APIToken != "***" {
		t.Fatalf("token not redacted")
	}
	if cfg.APIToken != "s3cr3t" {
		t.Fatalf("Redacted mutated the receiver")
	}
}

func TestLoadWithFlagsOverridesEnvironment(t *testing.T) {
	setRequired(t)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")
	flags.Int64("timeout", 0, "")
	if err := flags.Parse([]string{"--endpoint=https://flag.example.com"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := LoadWithFlags(flags, map[string]string{
		"sdi_endpoint":        "endpoint",
		"sdi_timeout_seconds": "timeout",
		"sdi_username":        "missing-flag",
	})
	if err != nil {
		t.Fatalf("LoadWithFlags: %v", err)
	}
	if cfg.Endpoint != "https://flag.example.com" {
		t.Fatalf("Endpoint = %s", cfg.Endpoint)
	}
	if cfg.Timeout != 3600*time.Second {
		t.Fatalf("unset flag must not override the default, got %v", cfg.Timeout)
	}
	if cfg.Username != "acme" {
		t.Fatalf("Username = %s", cfg.Username)
	}
}
