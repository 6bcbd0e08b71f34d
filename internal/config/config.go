package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Email    EmailConfig
	Storage  StorageConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	RequestTimeoutSeconds int
	BodyLimitMB           int
	CORSOrigins           []string
	PhoneRegion           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	MaxFailedLogins       int
	LockoutMinutes        int
	RateLimitPerMinute    int
}

// EmailConfig holds the outbound mail transport settings.
type EmailConfig struct {
	Provider              string
	Host                  string
	Port                  int
	Secure                bool
	RequireTLS            bool
	TLSRejectUnauthorized bool
	ConnectionTimeout     time.Duration
	GreetingTimeout       time.Duration
	SocketTimeout         time.Duration
	User                  string
	Password              string
	From                  string
	FromName              string
	AdminEmail            string
	MailerSendAPIKey      string
}

// StorageConfig holds the S3-compatible image store settings.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicURL     string
	MaxFileSizeMB int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	emailPort := getEnvAsInt("EMAIL_PORT", 465)
	emailUser := os.Getenv("EMAIL_USER")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "snack-party-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3001"),
			RequestTimeoutSeconds: getEnvAsInt("APP_REQUEST_TIMEOUT_SECONDS", 15),
			BodyLimitMB:           getEnvAsInt("APP_BODY_LIMIT_MB", 10),
			CORSOrigins:           getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
			PhoneRegion:           getEnv("APP_PHONE_REGION", "CO"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
			MaxFailedLogins:       getEnvAsInt("AUTH_MAX_FAILED_LOGINS", 5),
			LockoutMinutes:        getEnvAsInt("AUTH_LOCKOUT_MINUTES", 15),
			RateLimitPerMinute:    getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),
		},
		Email: EmailConfig{
			Provider:              strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
			Host:                  getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:                  emailPort,
			Secure:                getEnvAsBool("EMAIL_SECURE", emailPort == 465),
			RequireTLS:            getEnvAsBool("EMAIL_REQUIRE_TLS", emailPort != 465),
			TLSRejectUnauthorized: getEnvAsBool("EMAIL_TLS_REJECT_UNAUTHORIZED", true),
			ConnectionTimeout:     emailTimeout("EMAIL_CONNECTION_TIMEOUT", 15000),
			GreetingTimeout:       emailTimeout("EMAIL_GREETING_TIMEOUT", 15000),
			SocketTimeout:         emailTimeout("EMAIL_SOCKET_TIMEOUT", 20000),
			User:                  emailUser,
			Password:              os.Getenv("EMAIL_PASS"),
			From:                  getEnv("EMAIL_FROM", emailUser),
			FromName:              getEnv("EMAIL_FROM_NAME", "Snack Party"),
			AdminEmail:            getEnv("ADMIN_EMAIL", emailUser),
			MailerSendAPIKey:      os.Getenv("MAILERSEND_API_KEY"),
		},
		Storage: StorageConfig{
			Endpoint:      os.Getenv("STORAGE_ENDPOINT"),
			AccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
			UseSSL:        getEnvAsBool("STORAGE_USE_SSL", true),
			Bucket:        getEnv("STORAGE_BUCKET", "snack-party"),
			PublicURL:     os.Getenv("STORAGE_PUBLIC_URL"),
			MaxFileSizeMB: getEnvAsInt("STORAGE_MAX_FILE_SIZE_MB", 5),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if !cfg.App.IsDevelopment() {
			return nil, errors.New("AUTH_JWT_SECRET is required outside development")
		}
		cfg.Auth.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsDevelopment reports whether internal error details may be exposed.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// Enabled reports whether an object store is configured.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != ""
}

// MaxFileSize returns the upload limit in bytes.
func (s StorageConfig) MaxFileSize() int64 {
	return int64(s.MaxFileSizeMB) << 20
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}

// emailTimeout reads a millisecond value from key, then from key_MS.
func emailTimeout(key string, fallback int) time.Duration {
	return getEnvAsMillis(key, getEnvAsInt(key+"_MS", fallback))
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
