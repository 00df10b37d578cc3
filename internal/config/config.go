package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Store string

const (
	StoreSQLite   Store = "sqlite"
	StorePostgres Store = "postgres"
	StoreMongo    Store = "mongo"
)

type Config struct {
	ServerPort string
	Store      Store

	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MongoURI string
	MongoDB  string

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	} else {
		slog.Debug(".env file not found, relying on environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		Store:            Store(strings.ToLower(getEnv("TODO_STORE", string(StoreSQLite)))),
		SQLitePath:       getEnv("SQLITE_PATH", "./todo.db"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     os.Getenv("POSTGRES_PORT"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "todos"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var required []string
	switch c.Store {
	case StoreSQLite:
		required = []string{"SQLITE_PATH"}
	case StorePostgres:
		required = []string{
			"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
			"POSTGRES_HOST", "POSTGRES_PORT",
		}
	case StoreMongo:
		required = []string{"MONGO_URI"}
	default:
		return fmt.Errorf("TODO_STORE must be one of sqlite, postgres, mongo; got %q", c.Store)
	}

	values := map[string]string{
		"SQLITE_PATH":       c.SQLitePath,
		"POSTGRES_USER":     c.PostgresUser,
		"POSTGRES_PASSWORD": c.PostgresPassword,
		"POSTGRES_DB":       c.PostgresDB,
		"POSTGRES_HOST":     c.PostgresHost,
		"POSTGRES_PORT":     c.PostgresPort,
		"MONGO_URI":         c.MongoURI,
	}
	for _, env := range required {
		if values[env] == "" {
			return fmt.Errorf("environment variable %s must be set", env)
		}
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
