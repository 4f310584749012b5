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
	Port  string
	DBUrl string

	ProfileWorkflowURL      string
	OrganizationWorkflowURL string
	WorkflowAPIKey          string
	WorkflowRequestTimeout  time.Duration
	WorkflowMaxRetries      int
	WorkflowPacingInterval  time.Duration

	AnthropicAPIKey string
	ScoringModel    string
	WorkerPoolSize  int

	HealthTestProfileURL      string
	HealthTestOrganizationURL string

	EnableCompanyIngestion bool
	EnableAsyncProcessing  bool

	APIKeys []string

	CORSAllowedOrigins []string

	// Redis/rate limiting
	RedisURL      string
	RedisPassword string

	RateLimitWindowSeconds  int
	RateLimitGlobalPerHour  int
	RateLimitScoringPerHour int
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),

		ProfileWorkflowURL:      getEnv("PROFILE_WORKFLOW_URL", ""),
		OrganizationWorkflowURL: getEnv("ORGANIZATION_WORKFLOW_URL", ""),
		WorkflowAPIKey:          getEnv("WORKFLOW_API_KEY", ""),
		WorkflowRequestTimeout:  time.Duration(getEnvInt("WORKFLOW_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		WorkflowMaxRetries:      getEnvInt("WORKFLOW_MAX_RETRIES", 3),
		WorkflowPacingInterval:  time.Duration(getEnvInt("WORKFLOW_PACING_INTERVAL_SECONDS", 3)) * time.Second,

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ScoringModel:    getEnv("SCORING_MODEL", "claude-sonnet-4-5"),
		WorkerPoolSize:  getEnvInt("SCORING_WORKER_POOL_SIZE", 4),

		HealthTestProfileURL:      getEnv("HEALTH_TEST_PROFILE_URL", ""),
		HealthTestOrganizationURL: getEnv("HEALTH_TEST_ORGANIZATION_URL", ""),

		EnableCompanyIngestion: getEnvBool("ENABLE_COMPANY_INGESTION", true),
		EnableAsyncProcessing:  getEnvBool("ENABLE_ASYNC_PROCESSING", true),

		APIKeys: splitAndTrim(getEnv("API_KEYS", "")),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
		RateLimitGlobalPerHour:  getEnvInt("RATE_LIMIT_GLOBAL_PER_HOUR", 100),
		RateLimitScoringPerHour: getEnvInt("RATE_LIMIT_SCORING_PER_HOUR", 10),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.ProfileWorkflowURL == "" || cfg.OrganizationWorkflowURL == "" {
		log.Println("WARNING: workflow base URLs are not fully configured; ingestion will fail.")
	}
	if cfg.AnthropicAPIKey == "" {
		log.Println("WARNING: ANTHROPIC_API_KEY is missing. Scoring jobs will fail.")
	}
	if len(cfg.APIKeys) == 0 {
		log.Println("WARNING: API_KEYS is empty. All requests will be rejected by the API key middleware.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
