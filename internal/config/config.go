package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisEnabled         bool
	RedisURL             string
	RedisPassword        string
	MoveCacheTTL         time.Duration
	KafkaBrokers         []string
	KafkaTopic           string
	BotMoveDelay         time.Duration
	DefaultDifficulty    domain.Difficulty
	SessionIdleTimeout   time.Duration
	FinishedSessionTTL   time.Duration
	GameRetentionDays    int
	CleanupInterval      time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range GetEnvAsList("ALLOWED_ORIGINS") {
		if origin != frontendURL {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	// Database Config
	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if dbURL != "" {
		if u, err := url.Parse(dbURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				dbURL = u.String()
			}
		}
	}

	difficulty, err := domain.ParseDifficulty(GetEnv("DEFAULT_DIFFICULTY", string(domain.DifficultyMedium)))
	if err != nil {
		log.Printf("Invalid DEFAULT_DIFFICULTY, using %s", domain.DifficultyMedium)
		difficulty = domain.DifficultyMedium
	}

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisEnabled:         GetEnvAsBool("REDIS_ENABLED", true),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		MoveCacheTTL:         time.Duration(GetEnvAsInt("MOVE_CACHE_TTL_MINUTES", 60)) * time.Minute,
		KafkaBrokers:         GetEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:           GetEnv("KAFKA_TOPIC", "game.analytics"),
		BotMoveDelay:         time.Duration(GetEnvAsInt("BOT_MOVE_DELAY_MS", 0)) * time.Millisecond,
		DefaultDifficulty:    difficulty,
		SessionIdleTimeout:   time.Duration(GetEnvAsInt("SESSION_IDLE_HOURS", 24)) * time.Hour,
		FinishedSessionTTL:   time.Duration(GetEnvAsInt("FINISHED_SESSION_TTL_MINUTES", 60)) * time.Minute,
		GameRetentionDays:    GetEnvAsInt("GAME_RETENTION_DAYS", 30),
		CleanupInterval:      time.Duration(GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 60)) * time.Minute,
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsList splits a comma separated variable, dropping blanks.
func GetEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
