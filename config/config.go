package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурации приложения
type Config struct {
	ServerPort string

	// Backend REST API
	APIBaseURL string
	APITimeout time.Duration

	// Session
	SessionSecret string
	SessionTTL    time.Duration
	SessionStore  string // "redis" или "memory"
	CookieSecure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Google Sheets export, optional
	GoogleCredentialsFile string
}

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// NewConfig создает и возвращает новый экземпляр Config.
// Переменные из .env подхватываются, если файл существует.
func NewConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	return &Config{
		ServerPort:            getEnv("SERVER_PORT", "6066"),
		APIBaseURL:            strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
		APITimeout:            getEnvDuration("API_TIMEOUT", 30*time.Second),
		SessionSecret:         getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionTTL:            getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SessionStore:          strings.ToLower(getEnv("SESSION_STORE", StoreRedis)),
		CookieSecure:          getEnvBool("COOKIE_SECURE", false),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
	}
}

// Validate проверяет обязательные параметры.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	switch c.SessionStore {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}
