// Package config
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string
	LogFormat string

	APIBaseURL string
	APITimeout time.Duration

	SessionBackend string
	SessionFile    string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	DevServerAddress string
	JWTSecret        string
	JWTExpiry        time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	// Logs
	logLevel := getEnv("LOG_LEVEL", "info")
	logFormat := getEnv("LOG_FORMAT", "text")

	// Auth backend
	apiBaseURL := getEnv("API_URL", "https://medai-purebackend.onrender.com")
	apiTimeout := 15 * time.Second
	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
			apiTimeout = duration
		}
	}

	// Session persistence
	sessionBackend := getEnv("SESSION_BACKEND", "file")
	sessionFile := getEnv("SESSION_FILE", defaultSessionFile())

	// Redis (only used when SESSION_BACKEND=redis)
	redisAddress := getEnv("REDIS_ADDR", "localhost:6379")
	redisUsername := os.Getenv("REDIS_USERNAME")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			redisDB = db
		}
	}

	// Devserver
	devAddr := getEnv("HTTP_ADDR", ":3000")
	jwtSecret := getEnv("JWT_SECRET", "")
	jwtExpiry := 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRY"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
			jwtExpiry = duration
		}
	}

	return &Config{
		LogLevel:  logLevel,
		LogFormat: logFormat,

		APIBaseURL: apiBaseURL,
		APITimeout: apiTimeout,

		SessionBackend: sessionBackend,
		SessionFile:    sessionFile,

		RedisAddress:  redisAddress,
		RedisUsername: redisUsername,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,

		DevServerAddress: devAddr,
		JWTSecret:        jwtSecret,
		JWTExpiry:        jwtExpiry,
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".medai", "session.json")
	}
	return filepath.Join(dir, "medai", "session.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
