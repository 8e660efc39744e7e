// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is everything the bot reads from the environment.
type Config struct {
	DatabaseURL string

	DiscordToken  string
	OwnerID       string // only this Discord account may run add_archetype
	CommandPrefix string

	UploadDir string

	// Status API; disabled when StatusAddr is empty
	StatusAddr   string
	ServiceToken string

	LogLevel string

	// Optional R2 archive of uploaded deck lists; disabled when R2Bucket is empty
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
}

// EnvFileMissing reports whether Load fell back to the process environment.
var EnvFileMissing bool

// Load reads `.env` (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		EnvFileMissing = true
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DiscordToken:      strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		OwnerID:           strings.TrimSpace(os.Getenv("OWNER_ID")),
		CommandPrefix:     getEnv("COMMAND_PREFIX", "!"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		StatusAddr:        os.Getenv("STATUS_ADDR"),
		ServiceToken:      os.Getenv("SERVICE_TOKEN"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		R2AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:          os.Getenv("R2_BUCKET_NAME"),
	}

	if cfg.DatabaseURL == "" {
		dsn, err := dsnFromParts()
		if err != nil {
			return nil, err
		}
		cfg.DatabaseURL = dsn
	}
	if cfg.DiscordToken == "" {
		return nil, errors.New("DISCORD_TOKEN environment variable not set")
	}
	if cfg.OwnerID == "" {
		return nil, errors.New("OWNER_ID environment variable not set")
	}

	return cfg, nil
}

// dsnFromParts builds a postgres DSN from the DB_* variables.
func dsnFromParts() (string, error) {
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return "", errors.New("DATABASE_URL or DB_HOST/DB_NAME must be set")
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getEnv("DB_PORT", "5432"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		name,
		getEnv("DB_SSLMODE", "disable"),
	), nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
