package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	APIBaseURL     string
	APIToken       string
	BoardID        string
	UserID         string
	ServerPort     string
	RedisAddr      string
	SweepInterval  time.Duration
	SweepThreshold time.Duration
	Debug          bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment variables")
	}

	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		APIToken:       getEnv("API_TOKEN", ""),
		BoardID:        getEnv("BOARD_ID", ""),
		UserID:         getEnv("USER_ID", "local"),
		ServerPort:     getEnv("SERVER_PORT", "8090"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		SweepInterval:  getDuration("SWEEP_INTERVAL", time.Minute),
		SweepThreshold: getDuration("SWEEP_THRESHOLD", 24*time.Hour),
		Debug:          getBool("DEBUG", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warnf("invalid %s %q, using default %s", key, value, defaultVal)
		return defaultVal
	}
	return d
}

func getBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return b
}
