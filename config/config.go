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
	Store    StoreConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Firebase FirebaseConfig
	Sync     SyncConfig
	Mail     MailConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

// StoreConfig selects and tunes the record store backend.
type StoreConfig struct {
	Backend    string // memory | file | redis | firestore | postgres
	FilePath   string
	QuotaBytes int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

type DatabaseConfig struct {
	DSN string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	AdminUIDs       []string
}

// SyncConfig wires the hybrid local+remote mode. When RemoteBaseURL is empty
// the synchronizer stays off and the local store is the only store.
type SyncConfig struct {
	RemoteBaseURL string
	Credential    string
	CronSpec      string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "memory"),
			FilePath:   getEnv("PROJECTS_DB_PATH", "projects-db.json"),
			QuotaBytes: int64(getEnvAsInt("STORE_QUOTA_BYTES", 5242880)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_PROJECTS_KEY", "portfolio:projects"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			AdminUIDs:       splitList(getEnv("ADMIN_UIDS", "")),
		},
		Sync: SyncConfig{
			RemoteBaseURL: getEnv("SYNC_REMOTE_URL", ""),
			Credential:    getEnv("SYNC_CREDENTIAL", ""),
			CronSpec:      getEnv("SYNC_CRON", "@every 5m"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", ""),
			To:       getEnv("MAIL_TO", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
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

	switch c.Store.Backend {
	case "memory", "file", "redis":
	case "firestore":
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required for the firestore backend")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	return nil
}

// MailEnabled reports whether the email notifier has enough config to run.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != "" && c.Mail.From != "" && c.Mail.To != ""
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

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
