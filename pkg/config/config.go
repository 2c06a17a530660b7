package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Mail providers understood by the mailer factory.
const (
	MailProviderResend = "resend"
	MailProviderSMTP   = "smtp"
	MailProviderLog    = "log"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Catalog     CatalogConfig
	Mail        MailConfig
	Dedupe      DedupeConfig
	DeliveryLog DeliveryLogConfig
	Signup      SignupConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig controls how lesson occurrences are derived and displayed.
type CatalogConfig struct {
	Timezone     string
	Locale       string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Location resolves the configured timezone, falling back to UTC.
func (c CatalogConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MailConfig selects and configures the outbound transport for admin notifications.
type MailConfig struct {
	Provider      string
	From          string
	AdminAddress  string
	ResendAPIKey  string
	ResendBaseURL string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	Timeout       time.Duration
}

// DedupeConfig toggles the Redis-backed duplicate notification guard.
type DedupeConfig struct {
	Enabled bool
	TTL     time.Duration
	// Secret keys the fingerprint so Redis never holds a recoverable e-mail address.
	Secret  string
}

// DeliveryLogConfig toggles persistence of notification delivery outcomes.
type DeliveryLogConfig struct {
	Enabled   bool
	Workers   int
	Retries   int
	Retention time.Duration
}

// SignupConfig configures the terminal sign-up client.
type SignupConfig struct {
	NotifierURL  string
	Timeout      time.Duration
	SuccessDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		Timezone:     v.GetString("TIMEZONE"),
		Locale:       strings.ToLower(v.GetString("CATALOG_LOCALE")),
		CacheEnabled: v.GetBool("ENABLE_CATALOG_CACHE"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Mail = MailConfig{
		Provider:      strings.ToLower(v.GetString("MAIL_PROVIDER")),
		From:          v.GetString("MAIL_FROM"),
		AdminAddress:  v.GetString("ADMIN_EMAIL"),
		ResendAPIKey:  v.GetString("RESEND_API_KEY"),
		ResendBaseURL: v.GetString("RESEND_BASE_URL"),
		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetInt("SMTP_PORT"),
		SMTPUser:      v.GetString("SMTP_USER"),
		SMTPPassword:  v.GetString("SMTP_PASSWORD"),
		Timeout:       parseDuration(v.GetString("MAIL_TIMEOUT"), 10*time.Second),
	}

	cfg.Dedupe = DedupeConfig{
		Enabled: v.GetBool("ENABLE_DUPLICATE_GUARD"),
		TTL:     parseDuration(v.GetString("DUPLICATE_GUARD_TTL"), 10*time.Minute),
		Secret:  v.GetString("DUPLICATE_GUARD_SECRET"),
	}

	cfg.DeliveryLog = DeliveryLogConfig{
		Enabled:   v.GetBool("ENABLE_DELIVERY_LOG"),
		Workers:   v.GetInt("DELIVERY_LOG_WORKERS"),
		Retries:   v.GetInt("DELIVERY_LOG_RETRIES"),
		Retention: parseDuration(v.GetString("DELIVERY_LOG_RETENTION"), 30*24*time.Hour),
	}

	cfg.Signup = SignupConfig{
		NotifierURL:  v.GetString("NOTIFIER_URL"),
		Timeout:      parseDuration(v.GetString("NOTIFIER_TIMEOUT"), 0),
		SuccessDelay: parseDuration(v.GetString("SIGNUP_SUCCESS_DELAY"), 2500*time.Millisecond),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "uncode_signup")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMEZONE", "Europe/Amsterdam")
	v.SetDefault("CATALOG_LOCALE", "nl")
	v.SetDefault("ENABLE_CATALOG_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "15m")

	v.SetDefault("MAIL_PROVIDER", MailProviderLog)
	v.SetDefault("MAIL_FROM", "Uncode Society <onboarding@resend.dev>")
	v.SetDefault("ADMIN_EMAIL", "info@uncodesociety.org")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("RESEND_BASE_URL", "https://api.resend.com")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_TIMEOUT", "10s")

	v.SetDefault("ENABLE_DUPLICATE_GUARD", false)
	v.SetDefault("DUPLICATE_GUARD_TTL", "10m")
	v.SetDefault("DUPLICATE_GUARD_SECRET", "")

	v.SetDefault("ENABLE_DELIVERY_LOG", false)
	v.SetDefault("DELIVERY_LOG_WORKERS", 1)
	v.SetDefault("DELIVERY_LOG_RETRIES", 3)
	v.SetDefault("DELIVERY_LOG_RETENTION", "720h")

	v.SetDefault("NOTIFIER_URL", "http://localhost:8080/api/v1/registrations")
	v.SetDefault("NOTIFIER_TIMEOUT", "")
	v.SetDefault("SIGNUP_SUCCESS_DELAY", "2500ms")
}

// viper reports a missing explicit config file as an *fs.PathError rather than
// ConfigFileNotFoundError when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
