package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config location relative to the working
// directory.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`
	BaseURL  string `yaml:"baseURL"`

	DatabaseURL string `yaml:"databaseURL"`
	DataDir     string `yaml:"dataDir"`

	SessionStrategy string `yaml:"sessionStrategy"`
	SessionTTLHours int    `yaml:"sessionTtlHours"`
	SecretKey       string `yaml:"secretKey"`

	RedisAddr        string `yaml:"redisAddr"`
	RedisPassword    string `yaml:"redisPassword"`
	AnalyticsBackend string `yaml:"analyticsBackend"`

	MailServer        string `yaml:"mailServer"`
	MailPort          int    `yaml:"mailPort"`
	MailUsername      string `yaml:"mailUsername"`
	MailPassword      string `yaml:"mailPassword"`
	MailDefaultSender string `yaml:"mailDefaultSender"`

	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`
	UploadsDir     string `yaml:"uploadsDir"`

	MaxUploadBytes int64 `yaml:"maxUploadBytes"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SESSION_STRATEGY"); v != "" {
		cfg.SessionStrategy = v
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SessionTTLHours = n
		}
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("ANALYTICS_BACKEND"); v != "" {
		cfg.AnalyticsBackend = v
	}
	if v := os.Getenv("MAIL_SERVER"); v != "" {
		cfg.MailServer = v
	}
	if v := os.Getenv("MAIL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MailPort = n
		}
	}
	if v := os.Getenv("MAIL_USERNAME"); v != "" {
		cfg.MailUsername = v
	}
	if v := os.Getenv("MAIL_PASSWORD"); v != "" {
		cfg.MailPassword = v
	}
	if v := os.Getenv("MAIL_DEFAULT_SENDER"); v != "" {
		cfg.MailDefaultSender = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if useSSL, err := strconv.ParseBool(v); err == nil {
			cfg.MinioUseSSL = useSSL
		}
	}
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		cfg.UploadsDir = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStrategy)) {
	case "", "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required for sessionStrategy=redis")
		}
	case "jwt":
		if strings.TrimSpace(cfg.SecretKey) == "" {
			return errors.New("config: secretKey is required for sessionStrategy=jwt")
		}
	default:
		return fmt.Errorf("config: unknown sessionStrategy %q (memory, redis or jwt)", cfg.SessionStrategy)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.AnalyticsBackend)) {
	case "", "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required for analyticsBackend=redis")
		}
	default:
		return fmt.Errorf("config: unknown analyticsBackend %q (memory or redis)", cfg.AnalyticsBackend)
	}
	if cfg.SessionTTLHours < 0 {
		return errors.New("config: sessionTtlHours must be >= 0")
	}
	if cfg.MaxUploadBytes < 0 {
		return errors.New("config: maxUploadBytes must be >= 0")
	}
	if cfg.MinioEndpoint != "" {
		if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
			return errors.New("config: minioAccessKey and minioSecretKey are required when minioEndpoint is set")
		}
		if cfg.MinioBucket == "" {
			return errors.New("config: minioBucket is required when minioEndpoint is set")
		}
	}
	if cfg.MailServer != "" && cfg.MailPort <= 0 {
		return errors.New("config: mailPort must be > 0 when mailServer is set")
	}
	return nil
}
