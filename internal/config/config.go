package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Identity IdentityConfig
	Backend  BackendConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	SessionTTLMinutes  int
}

type DatabaseConfig struct {
	Connection string
}

type IdentityConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

type BackendConfig struct {
	APIBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "console.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Identity: IdentityConfig{
			URL:       trimBase(getEnv("IDENTITY_URL", "")),
			AnonKey:   getEnv("IDENTITY_ANON_KEY", ""),
			JWTSecret: getEnv("IDENTITY_JWT_SECRET", ""),
		},
		Backend: BackendConfig{
			APIBaseURL: trimBase(getEnv("API_BASE_URL", "")),
		},
	}

	// Missing endpoints are a warning, not a hard failure: the server still
	// boots and the affected calls surface errors inline.
	if cfg.Identity.URL == "" || cfg.Identity.AnonKey == "" {
		log.Println("[WARN] IDENTITY_URL / IDENTITY_ANON_KEY not set")
	}
	if cfg.Backend.APIBaseURL == "" {
		log.Println("[WARN] API_BASE_URL not set")
	}

	return cfg
}

// trimBase normalizes a base URL without a trailing slash.
func trimBase(url string) string {
	return strings.TrimRight(url, "/")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
