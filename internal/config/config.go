package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	NOWPayments NOWPaymentsConfig
	Mail        MailConfig
	Jobs        JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// NOWPaymentsConfig holds the payout gateway settings
type NOWPaymentsConfig struct {
	APIURL      string
	APIKey      string
	IPNSecret   string
	CallbackURL string
}

// MailConfig holds transactional email settings
type MailConfig struct {
	BrevoAPIKey string
	SenderEmail string
	SenderName  string
	AdminEmail  string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	PayoutPollInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "propvault"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		NOWPayments: NOWPaymentsConfig{
			APIURL:      getEnv("NOWPAYMENTS_API_URL", "https://api.nowpayments.io/v1"),
			APIKey:      getEnv("NOWPAYMENTS_API_KEY", ""),
			IPNSecret:   getEnv("NOWPAYMENTS_IPN_SECRET", ""),
			CallbackURL: getEnv("NOWPAYMENTS_CALLBACK_URL", ""),
		},
		Mail: MailConfig{
			BrevoAPIKey: getEnv("BREVO_API_KEY", ""),
			SenderEmail: getEnv("MAIL_SENDER_EMAIL", "noreply@propvault.io"),
			SenderName:  getEnv("MAIL_SENDER_NAME", "PropVault"),
			AdminEmail:  getEnv("MAIL_ADMIN_EMAIL", ""),
		},
		Jobs: JobsConfig{
			PayoutPollInterval: getEnvAsDuration("PAYOUT_POLL_INTERVAL", 5*time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
