package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvConfig holds configuration sourced from environment variables
type EnvConfig struct {
	Port            int
	Env             string
	LogLevel        string
	EnableCORS      bool
	CORSOrigin      string
	HealthCheckPath string

	// Video catalog API credentials: primary + numbered fallbacks
	YouTubeAPIKeys []string
	// Generative text API credentials: primary + numbered fallbacks
	GeminiAPIKeys []string

	// Daily quota budget in catalog units
	QuotaDailyLimit int

	// Log file settings
	LogDir        string
	LogFile       string
	LogMaxSize    int // max size of a single log file (MB)
	LogMaxBackups int // max number of rotated files to keep
	LogMaxAge     int // max age of rotated files (days)
	LogCompress   bool
	LogToConsole  bool
}

// NewEnvConfig creates the environment configuration
func NewEnvConfig() *EnvConfig {
	env := getEnv("ENV", "")
	if env == "" {
		env = getEnv("NODE_ENV", "development")
	}

	return &EnvConfig{
		Port:            getEnvAsInt("PORT", 3000),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		EnableCORS:      getEnv("ENABLE_CORS", "true") != "false",
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		HealthCheckPath: getEnv("HEALTH_CHECK_PATH", "/health"),

		YouTubeAPIKeys: collectNumberedKeys("YOUTUBE_API_KEY", 5),
		GeminiAPIKeys:  collectNumberedKeys("GEMINI_API_KEY", 4),

		QuotaDailyLimit: getEnvAsInt("QUOTA_DAILY_LIMIT", 10000),

		LogDir:        getEnv("LOG_DIR", "logs"),
		LogFile:       getEnv("LOG_FILE", "app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 10),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 30),
		LogCompress:   getEnv("LOG_COMPRESS", "true") != "false",
		LogToConsole:  getEnv("LOG_TO_CONSOLE", "true") != "false",
	}
}

// collectNumberedKeys gathers BASE, BASE_2 .. BASE_n, skipping empty slots.
// The unnumbered variable is the primary credential; numbering starts at 2
// to match the original deployment convention.
func collectNumberedKeys(base string, max int) []string {
	keys := []string{}
	if v := os.Getenv(base); v != "" {
		keys = append(keys, v)
	}
	for i := 2; i <= max; i++ {
		if v := os.Getenv(fmt.Sprintf("%s_%d", base, i)); v != "" {
			keys = append(keys, v)
		}
	}
	return keys
}

// IsDevelopment reports whether the server runs in development mode
func (c *EnvConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction reports whether the server runs in production mode
func (c *EnvConfig) IsProduction() bool {
	return c.Env == "production"
}

// ShouldLog reports whether a message at the given level should be logged
func (c *EnvConfig) ShouldLog(level string) bool {
	levels := map[string]int{
		"error": 0,
		"warn":  1,
		"info":  2,
		"debug": 3,
	}

	currentLevel, ok := levels[c.LogLevel]
	if !ok {
		currentLevel = 2
	}

	requestLevel, ok := levels[level]
	if !ok {
		return false
	}

	return requestLevel <= currentLevel
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
