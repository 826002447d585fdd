package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Intake   IntakeConfig
	Firebase FirebaseConfig
	App      AppConfig
}

type ServerConfig struct {
	Port          string
	SessionSecret string
	CORSOrigins   []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Username   string
	Password   string
	FromEmail  string
	AdminEmail string
}

// IntakeConfig carries tuning knobs for the public inquiry endpoints.
type IntakeConfig struct {
	RatePerMinute int
	RateBurst     int
	SuccessURL    string
	BackOfficeURL string
	AdminAPIKey   string
}

// FirebaseConfig configures staff authentication. When no credentials file
// is set, admin routes fall back to the static API key guard.
type FirebaseConfig struct {
	CredentialsPath string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	SiteName    string
	SiteURL     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			CORSOrigins:   splitEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Enabled:    getEnvAsBool("SMTP_ENABLED", false),
			Host:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			FromEmail:  getEnv("SMTP_FROM_EMAIL", "noreply@cascadedigital.example"),
			AdminEmail: getEnv("ADMIN_EMAIL", "hello@cascadedigital.example"),
		},
		Intake: IntakeConfig{
			RatePerMinute: getEnvAsInt("INTAKE_RATE_PER_MINUTE", 6),
			RateBurst:     getEnvAsInt("INTAKE_RATE_BURST", 3),
			SuccessURL:    getEnv("INTAKE_SUCCESS_URL", "/contact/success/"),
			BackOfficeURL: getEnv("BACKOFFICE_URL", "http://localhost:8080/admin"),
			AdminAPIKey:   getEnv("ADMIN_API_KEY", ""),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SiteName:    getEnv("SITE_NAME", "Cascade Digital"),
			SiteURL:     getEnv("SITE_URL", "http://localhost:8080"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.SMTP.Enabled && (c.SMTP.Username == "" || c.SMTP.Password == "") {
		return fmt.Errorf("SMTP_USERNAME and SMTP_PASSWORD are required when SMTP_ENABLED is true")
	}

	if c.App.Environment == "production" && c.Server.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required in production")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
