package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StorageDisk = "disk"
	StorageGCS  = "gcs"
)

// Config is the runtime configuration read from the environment
type Config struct {
	AppName string
	Port    string

	PublicDir      string
	StorageBackend string
	UploadsDir     string
	GCSBucket      string
	GCSPrefix      string
	GCPCredentials string // base64 encoded service account JSON

	MaxFileSize      int64
	BodyLimit        int
	ChatHistoryLimit int

	DBURL     string
	DBMigrate bool

	LogLevel  string
	LogPretty bool
}

// Load reads the configuration. Call godotenv.Load before it to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		AppName:        getEnv("APP_NAME", "Cloud Chat Backend"),
		Port:           getEnv("PORT", "3000"),
		PublicDir:      getEnv("PUBLIC_DIR", "public"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageDisk)),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
		GCSPrefix:      os.Getenv("GCS_PREFIX"),
		GCPCredentials: os.Getenv("GCP_SERVICE_ACCOUNT_CREDENTIALS"),
		DBURL:          os.Getenv("DB_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	maxFileMB, err := getEnvInt("MAX_FILE_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}
	cfg.MaxFileSize = int64(maxFileMB) * 1024 * 1024

	bodyMB, err := getEnvInt("BODY_LIMIT_MB", 50)
	if err != nil {
		return nil, err
	}
	cfg.BodyLimit = bodyMB * 1024 * 1024

	if cfg.ChatHistoryLimit, err = getEnvInt("CHAT_HISTORY_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.DBMigrate, err = getEnvBool("DB_MIGRATE", false); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case StorageDisk:
	case StorageGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET must be set when STORAGE_BACKEND=%s", StorageGCS)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
