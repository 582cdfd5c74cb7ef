package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STRATEGY", "jwt")
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("SESSION_TTL_HOURS", "48")
	t.Setenv("MAIL_SERVER", "smtp.example.com")
	t.Setenv("MAIL_PORT", "587")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfgPath := writeConfig(t, `
port: "8080"
logLevel: "info"
baseURL: "http://localhost:8080"
dataDir: "data"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Port)
	}
	if cfg.SessionStrategy != "jwt" {
		t.Fatalf("sessionStrategy = %q, want jwt", cfg.SessionStrategy)
	}
	if cfg.SecretKey != "from-env" {
		t.Fatalf("secretKey = %q, want from-env", cfg.SecretKey)
	}
	if cfg.SessionTTLHours != 48 {
		t.Fatalf("sessionTtlHours = %d, want 48", cfg.SessionTTLHours)
	}
	if cfg.MailServer != "smtp.example.com" || cfg.MailPort != 587 {
		t.Fatalf("mail = %q:%d, want smtp.example.com:587", cfg.MailServer, cfg.MailPort)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("maxUploadBytes = %d, want 1048576", cfg.MaxUploadBytes)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("dataDir = %q, want data", cfg.DataDir)
	}
}

func TestValidateConfigRejectsMissingPort(t *testing.T) {
	if err := validateConfig(FileConfig{}); err == nil {
		t.Fatalf("validateConfig() expected error for missing port")
	}
}

func TestValidateConfigRejectsJWTWithoutSecret(t *testing.T) {
	cfg := FileConfig{Port: "8080", SessionStrategy: "jwt"}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for jwt without secretKey")
	}
}

func TestValidateConfigRejectsRedisSessionsWithoutAddr(t *testing.T) {
	cfg := FileConfig{Port: "8080", SessionStrategy: "redis"}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for redis sessions without redisAddr")
	}
}

func TestValidateConfigRejectsUnknownStrategy(t *testing.T) {
	cfg := FileConfig{Port: "8080", SessionStrategy: "cookies"}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for unknown sessionStrategy")
	}
}

func TestValidateConfigRejectsIncompleteMinio(t *testing.T) {
	cfg := FileConfig{Port: "8080", MinioEndpoint: "localhost:9000"}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for minio endpoint without credentials")
	}
}
