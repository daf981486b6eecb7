package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	// Reseller backend
	BackendBaseURL  string
	StaticAuthToken string
	RequestTimeout  time.Duration
	PageSize        int
	AnalyticsPath   string

	// Summary generation
	GeminiAPIKey string
	GeminiModel  string

	CookieSecure   bool
	AllowedOrigins []string

	// Activity log storage
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendBaseURL:  strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:3007/api/v1"), "/"),
		StaticAuthToken: getEnv("BACKEND_STATIC_TOKEN", ""),
		RequestTimeout:  getDuration("BACKEND_TIMEOUT", 15*time.Second),
		PageSize:        getInt("PAGE_SIZE", 10),
		AnalyticsPath:   getEnv("ANALYTICS_PATH", "/wa/analytics"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		CookieSecure:   getBool("COOKIE_SECURE", false),
		AllowedOrigins: getList("ALLOWED_ORIGINS"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./waba-admin.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "waba_admin"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	switch strings.TrimSpace(strings.ToLower(getEnv(key, ""))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func getList(key string) []string {
	var out []string
	for _, value := range strings.Split(getEnv(key, ""), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
