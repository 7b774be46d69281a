package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DefaultSupportedLanguages are the language codes the entity extractor accepts.
var DefaultSupportedLanguages = []string{"en", "es", "fr", "de", "it", "pt", "ar", "hi", "ja", "ko", "zh", "zh-TW"}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	ConnectTimeoutSec  int    `yaml:"connect_timeout_sec"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Bucket         string `yaml:"bucket"`
	UseSSL         bool   `yaml:"use_ssl"`
	Region         string `yaml:"region"`
	UploadTTLSec   int    `yaml:"upload_ttl_sec"`
	DownloadTTLSec int    `yaml:"download_ttl_sec"`
	// ListenEvents subscribes to bucket notifications directly instead of
	// relying on the webhook endpoint.
	ListenEvents bool `yaml:"listen_events"`
}

// UploadTTL is the lifetime of signed write handles.
func (c MinIOConfig) UploadTTL() time.Duration {
	return time.Duration(c.UploadTTLSec) * time.Second
}

// DownloadTTL is the lifetime of signed read handles.
func (c MinIOConfig) DownloadTTL() time.Duration {
	return time.Duration(c.DownloadTTLSec) * time.Second
}

// AuthConfig holds identity settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	IdentityClaim string `yaml:"identity_claim"`
	// WebhookToken guards the storage event webhook. The webhook is not
	// served without one, so it is required unless ListenEvents is set.
	WebhookToken string `yaml:"webhook_token"`
}

// AnalysisConfig holds settings for the language, entity and image services.
type AnalysisConfig struct {
	OpenAIKey          string   `yaml:"openai_key"`
	OpenAIBaseURL      string   `yaml:"openai_base_url"`
	EntityModel        string   `yaml:"entity_model"`
	VisionModel        string   `yaml:"vision_model"`
	SupportedLanguages []string `yaml:"supported_languages"`
	// DetectorLanguages limits the language detector to these ISO 639-1
	// codes; empty means every language it knows.
	DetectorLanguages []string `yaml:"detector_languages"`
}

// AppConfig is the centralized configuration struct for the application.
// It is built once at start-up and handed to each component.
type AppConfig struct {
	AppHost  string         `yaml:"app_host"`
	Port     string         `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	TimeZone string         `yaml:"time_zone"`
	Database DatabaseConfig `yaml:"database"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *AppConfig {
	return &AppConfig{
		AppHost:  "localhost:8080",
		Port:     "8080",
		LogLevel: "info",
		TimeZone: "UTC",
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
			ConnectTimeoutSec:  5,
		},
		MinIO: MinIOConfig{
			UploadTTLSec:   900,
			DownloadTTLSec: 900,
		},
		Auth: AuthConfig{
			IdentityClaim: "sub",
		},
		Analysis: AnalysisConfig{
			EntityModel:        "gpt-4o-mini",
			VisionModel:        "gpt-4o-mini",
			SupportedLanguages: append([]string(nil), DefaultSupportedLanguages...),
		},
	}
}

// Load builds the configuration: defaults, then the optional YAML file named
// by CONFIG_FILE, then environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() (*AppConfig, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *AppConfig) {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.TimeZone = getEnv("TZ_NAME", c.TimeZone)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetimeSec = getEnvInt("DB_CONN_MAX_LIFETIME_SEC", c.Database.ConnMaxLifetimeSec)
	c.Database.ConnectTimeoutSec = getEnvInt("DB_CONNECT_TIMEOUT_SEC", c.Database.ConnectTimeoutSec)

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIO.AccessKey)
	c.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.MinIO.SecretKey)
	c.MinIO.Bucket = getEnv("MINIO_BUCKET", c.MinIO.Bucket)
	c.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.MinIO.UseSSL)
	c.MinIO.Region = getEnv("MINIO_REGION", c.MinIO.Region)
	c.MinIO.UploadTTLSec = getEnvInt("MINIO_UPLOAD_TTL_SEC", c.MinIO.UploadTTLSec)
	c.MinIO.DownloadTTLSec = getEnvInt("MINIO_DOWNLOAD_TTL_SEC", c.MinIO.DownloadTTLSec)
	c.MinIO.ListenEvents = getEnvBool("MINIO_LISTEN_EVENTS", c.MinIO.ListenEvents)

	c.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.IdentityClaim = getEnv("AUTH_IDENTITY_CLAIM", c.Auth.IdentityClaim)
	c.Auth.WebhookToken = getEnv("AUTH_WEBHOOK_TOKEN", c.Auth.WebhookToken)

	c.Analysis.OpenAIKey = getEnv("OPENAI_API_KEY", c.Analysis.OpenAIKey)
	c.Analysis.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.Analysis.OpenAIBaseURL)
	c.Analysis.EntityModel = getEnv("ANALYSIS_ENTITY_MODEL", c.Analysis.EntityModel)
	c.Analysis.VisionModel = getEnv("ANALYSIS_VISION_MODEL", c.Analysis.VisionModel)
	c.Analysis.SupportedLanguages = getEnvList("ANALYSIS_SUPPORTED_LANGUAGES", c.Analysis.SupportedLanguages)
	c.Analysis.DetectorLanguages = getEnvList("ANALYSIS_DETECTOR_LANGUAGES", c.Analysis.DetectorLanguages)
}

// Validate checks the settings the server cannot run without.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("app: time_zone: %w", err)
	}
	if err := validation.ValidateStruct(&c.MinIO,
		validation.Field(&c.MinIO.Endpoint, validation.Required),
		validation.Field(&c.MinIO.AccessKey, validation.Required),
		validation.Field(&c.MinIO.SecretKey, validation.Required),
		validation.Field(&c.MinIO.Bucket, validation.Required),
		validation.Field(&c.MinIO.UploadTTLSec, validation.Required, validation.Min(1), validation.Max(7*24*3600)),
		validation.Field(&c.MinIO.DownloadTTLSec, validation.Required, validation.Min(1), validation.Max(7*24*3600)),
	); err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	if err := validation.ValidateStruct(&c.Auth,
		validation.Field(&c.Auth.JWTSecret, validation.Required),
		validation.Field(&c.Auth.IdentityClaim, validation.Required),
		validation.Field(&c.Auth.WebhookToken, validation.When(!c.MinIO.ListenEvents, validation.Required)),
	); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := validation.ValidateStruct(&c.Analysis,
		validation.Field(&c.Analysis.OpenAIKey, validation.Required),
		validation.Field(&c.Analysis.EntityModel, validation.Required),
		validation.Field(&c.Analysis.VisionModel, validation.Required),
		validation.Field(&c.Analysis.SupportedLanguages, validation.Required),
	); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList reads a comma-separated list, dropping blank entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
