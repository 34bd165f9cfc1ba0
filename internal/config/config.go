package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost port=5432 dbname=agentbank user=postgres password=postgres sslmode=disable"
const defaultListenAddr = ":8080"
const defaultCronSecret = "local-cron-secret"

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	ListenAddr    string
	CronSecret    string
	BaseURL       string
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		dsn = defaultDSN
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	cronSecret := strings.TrimSpace(os.Getenv("CRON_SECRET"))
	if cronSecret == "" {
		cronSecret = defaultCronSecret
	}

	baseURL := strings.TrimSpace(os.Getenv("BASE_URL"))
	if baseURL == "" {
		baseURL = "https://agentbank.example.com"
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = filepath.Join("migrations")
	}

	return Config{
		DatabaseDSN:   dsn,
		MigrationsDir: migrationsDir,
		ListenAddr:    listenAddr,
		CronSecret:    cronSecret,
		BaseURL:       baseURL,
	}, nil
}
