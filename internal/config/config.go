package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *EnvConfig

// EnvConfig holds every setting read from the environment.
type EnvConfig struct {
	// server config
	APP_PORT string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// snapshot config
	SNAPSHOT_BACKEND string
	SNAPSHOT_PATH    string
	RESTORE_ON_START bool
	// database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// elasticsearch config
	ELASTIC_URL   string
	ELASTIC_INDEX string
	// datastore config
	DATASTORE_PROJECT_ID string
}

// LoadEnvConfig reads the optional .env file (or the given files) and
// populates DefaultEnvConfig. A missing default .env is not an error.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	DefaultEnvConfig = &EnvConfig{
		APP_PORT:             getEnvString("APP_PORT", "8080"),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:            getEnvString("LOG_LEVEL", "info"),
		SNAPSHOT_BACKEND:     strings.ToLower(getEnvString("SNAPSHOT_BACKEND", "file")),
		SNAPSHOT_PATH:        getEnvString("SNAPSHOT_PATH", "company.json"),
		RESTORE_ON_START:     getEnvBool("RESTORE_ON_START", false),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 5432),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		ELASTIC_URL:          getEnvString("ELASTIC_URL", "http://localhost:9200"),
		ELASTIC_INDEX:        getEnvString("ELASTIC_INDEX", "employees"),
		DATASTORE_PROJECT_ID: getEnvString("DATASTORE_PROJECT_ID", ""),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
