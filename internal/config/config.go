package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	Database                  DatabaseConfig
	Scheduler                 SchedulerConfig
	Redis                     RedisConfig
	AI                        AIConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// SchedulerConfig holds the appointment auto-assignment settings
type SchedulerConfig struct {
	// IntervalSeconds is the idle wait between assignment passes.
	IntervalSeconds int
	// Timezone is the IANA zone used when defaulting preferred dates/times.
	Timezone string
	// DateOffsetDays decides whether unset preferred dates default to today
	// (0) or tomorrow (1).
	DateOffsetDays int
	// DoctorCacheTTLSeconds bounds staleness of cached doctor lookups on the
	// booking path. 0 disables the cache.
	DoctorCacheTTLSeconds int
}

// RedisConfig holds the optional realtime fan-out bridge settings. An empty
// Addr disables the bridge and events stay in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// AIConfig holds the symptom-analysis service settings
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "healthpulse"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	schedulerInterval, err := strconv.Atoi(getEnv("SCHEDULER_INTERVAL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL_SECONDS: %w", err)
	}

	dateOffsetDays, err := strconv.Atoi(getEnv("SCHEDULER_DATE_OFFSET_DAYS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_DATE_OFFSET_DAYS: %w", err)
	}

	doctorCacheTTL, err := strconv.Atoi(getEnv("DOCTOR_CACHE_TTL_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid DOCTOR_CACHE_TTL_SECONDS: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:5173"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		Database:                  dbConfig,
		Scheduler: SchedulerConfig{
			IntervalSeconds:       schedulerInterval,
			Timezone:              getEnv("SCHEDULER_TIMEZONE", "Asia/Kolkata"),
			DateOffsetDays:        dateOffsetDays,
			DoctorCacheTTLSeconds: doctorCacheTTL,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Channel:  getEnv("REDIS_EVENTS_CHANNEL", "healthpulse:events"),
		},
		AI: AIConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_API_BASE", "https://openrouter.ai/api/v1"),
			Model:   getEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct"),
		},
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
