package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	CatalogSource  string
	CatalogPath    string
	DBConn         string
	TermPolicy     string
	SelectionIndex int

	CBRURL         string
	KeyRateRefresh string
	RedisAddr      string

	JWTSecret            string
	OperatorUser         string
	OperatorPasswordHash string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

const (
	CatalogSourceCSV      = "csv"
	CatalogSourcePostgres = "postgres"
)

// NewConfig loads configuration from a .env file, if present, and environment variables
func NewConfig() (*Config, error) {
	// a missing .env is fine, real environment wins anyway
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		CatalogSource: getEnv("CATALOG_SOURCE", CatalogSourceCSV),
		CatalogPath:   getEnv("CATALOG_PATH", "Sber_test.csv"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable"),
		TermPolicy:    getEnv("TERM_POLICY", "bounds"),

		CBRURL:         getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		KeyRateRefresh: getEnv("KEY_RATE_REFRESH", "@every 6h"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),

		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		OperatorUser:         getEnv("OPERATOR_USER", "operator"),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "25"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "deposits@bank.local"),
	}

	index, err := strconv.Atoi(getEnv("SELECTION_INDEX", "1"))
	if err != nil {
		return nil, fmt.Errorf("SELECTION_INDEX must be an integer: %w", err)
	}
	if index < 0 {
		return nil, fmt.Errorf("SELECTION_INDEX must not be negative, got %d", index)
	}
	cfg.SelectionIndex = index

	switch cfg.CatalogSource {
	case CatalogSourceCSV:
		if cfg.CatalogPath == "" {
			return nil, fmt.Errorf("CATALOG_PATH is required for the csv catalog source")
		}
	case CatalogSourcePostgres:
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required for the postgres catalog source")
		}
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogSourceCSV, CatalogSourcePostgres, cfg.CatalogSource)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
