package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devAuthSecret = "dev-only-quiz-secret"

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Quiz    QuizConfig
	Auth    AuthConfig
	Session SessionConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Addr string
}

type DBConfig struct {
	Driver string
	DSN    string
}

type QuizConfig struct {
	BankDir     string
	DefaultQuiz string
	LandingURL  string
	TimeLimit   int
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
	LoginURL string
}

type SessionConfig struct {
	Backend       string
	TTL           time.Duration
	SweepInterval time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads a .env file when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("ADDR", ":8080"),
		},
		DB: DBConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite3")),
			DSN:    getEnv("DB_DSN", "data/quiz.db"),
		},
		Quiz: QuizConfig{
			BankDir:     getEnv("QUIZ_BANK_DIR", "data/banks"),
			DefaultQuiz: getEnv("DEFAULT_QUIZ", "Module1_quiz"),
			LandingURL:  getEnv("LANDING_URL", "/quizzes"),
			TimeLimit:   getEnvAsInt("QUIZ_TIME_LIMIT", 30),
		},
		Auth: AuthConfig{
			Secret:   getEnv("AUTH_SECRET", ""),
			TokenTTL: getEnvAsDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			LoginURL: getEnv("LOGIN_URL", "/login"),
		},
		Session: SessionConfig{
			Backend:       strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("SWEEP_INTERVAL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	if cfg.Auth.Secret == "" {
		log.Printf("config: AUTH_SECRET is not set, using an insecure development secret")
		cfg.Auth.Secret = devAuthSecret
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
