package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // Page is open to everyone (default)
	AuthModeLocal AuthMode = "local" // Write actions require the editor password
)

type (
	Config struct {
		HTTP
		Global
		Database
		Genres
		UI
		Logging
		Auth
		CORS
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	Genres struct {
		SeedFile string // Optional YAML file with the genre list
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Logging struct {
		Level  string
		Format string // "console" or "json"
	}
	Auth struct {
		Mode               AuthMode
		SessionSecret      string
		SessionLifetime    time.Duration
		SecureCookies      bool
		EditorPasswordHash string // bcrypt hash, required for AuthModeLocal
		BcryptCost         int
	}
	CORS struct {
		AllowedOrigins []string
	}
	Audit struct {
		RetentionDays int
	}
)

// loadDotEnv reads an optional .env file into the process environment.
// A missing file is not an error.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

// splitList turns a comma separated env value into a clean slice.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func NewConfig() *Config {
	loadDotEnv()
	return newConfigFromViper(viper.New())
}

func newConfigFromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("genres_seed_file", "")
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "12h") // One working day of page visits
	v.SetDefault("auth_secure_cookies", false)   // Local deployments run without TLS
	v.SetDefault("auth_editor_password_hash", "")
	v.SetDefault("auth_bcrypt_cost", 12)

	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("audit_retention_days", 90)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Genres: Genres{
			SeedFile: v.GetString("GENRES_SEED_FILE"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: Auth{
			Mode:               AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:      v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:    v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:      v.GetBool("AUTH_SECURE_COOKIES"),
			EditorPasswordHash: v.GetString("AUTH_EDITOR_PASSWORD_HASH"),
			BcryptCost:         v.GetInt("AUTH_BCRYPT_COST"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
