package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	CORS     CORSConfig
	AI       AIConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Driver   string // mysql or postgres
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AIConfig describes the external priority-scoring endpoint and how its runs are tracked
type AIConfig struct {
	BaseURL      string
	TriggerPath  string
	TriggerParam string
	Timeout      time.Duration
	PollInterval time.Duration
	RunTimeout   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "gestion_camas"),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		AI: AIConfig{
			BaseURL:      getEnv("AI_BASE_URL", "http://localhost:5000"),
			TriggerPath:  getEnv("AI_TRIGGER_PATH", "/ejecutar-ia"),
			TriggerParam: getEnv("AI_TRIGGER_PARAM", "iniciar"),
			Timeout:      parseDuration(getEnv("AI_TIMEOUT", "15s"), 15*time.Second),
			PollInterval: parseDuration(getEnv("AI_POLL_INTERVAL", "2s"), 2*time.Second),
			RunTimeout:   parseDuration(getEnv("AI_RUN_TIMEOUT", "5m"), 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		fmt.Printf("Warning: Invalid duration format '%s', using default %s\n", s, fallback)
		return fallback
	}
	return duration
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
