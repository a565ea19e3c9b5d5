package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	LogLevel         string
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAudience      string
	GeoIPDBPath      string
	DefaultLocale    string
	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	RedisURL         string

	DBMaxConns         int
	DBStatementTimeout time.Duration

	VideoProvider  string
	GeminiAPIKey   string
	GeminiBaseURL  string
	VeoModel       string
	PromptProvider string
	PromptModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string

	PollInterval    time.Duration
	PollMaxAttempts int

	StorageDriver       string
	StoragePath         string
	StorageBaseURL      string
	SupabaseURL         string
	SupabaseServiceKey  string
	SupabaseBucket      string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	WelcomeCredits     int
	LowCreditThreshold int
	BatchSettlement    string

	WorkerConcurrency int
	WorkerIdle        time.Duration
	SweepInterval     time.Duration
}

// lifetimeGrace is added to the polling ceiling to bound a job's total lifetime.
const lifetimeGrace = 2 * time.Minute

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		Port:             port,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        getEnv("SUPABASE_JWT_SECRET", os.Getenv("JWT_SECRET")),
		JWTAudience:      getEnv("JWT_AUDIENCE", "authenticated"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 600)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		RedisURL:         os.Getenv("REDIS_URL"),

		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 0),
		DBStatementTimeout: time.Second * time.Duration(getEnvInt("DB_STATEMENT_TIMEOUT_SECONDS", 30)),

		VideoProvider:  getEnv("VIDEO_PROVIDER", "veo"),
		GeminiAPIKey:   getEnv("GOOGLE_AI_API_KEY", os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		VeoModel:       getEnv("VEO_MODEL", "veo-3.1-fast-generate-preview"),
		PromptProvider: getEnv("PROMPT_PROVIDER", "gemini"),
		PromptModel:    getEnv("PROMPT_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		PollInterval:    time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 8)),
		PollMaxAttempts: getEnvInt("POLL_MAX_ATTEMPTS", 60),

		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", "filesystem")),
		StoragePath:         getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:      getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/static", port)),
		SupabaseURL:         strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseServiceKey:  os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseBucket:      getEnv("SUPABASE_BUCKET", "videos"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "videos"),

		WelcomeCredits:     getEnvInt("WELCOME_CREDITS", 50),
		LowCreditThreshold: getEnvInt("LOW_CREDIT_THRESHOLD", 10),
		BatchSettlement:    getEnv("BATCH_SETTLEMENT", "upfront"),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		WorkerIdle:        time.Second * time.Duration(getEnvInt("WORKER_IDLE_SECONDS", 2)),
		SweepInterval:     time.Second * time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}

	if cfg.PollInterval <= 0 || cfg.PollMaxAttempts <= 0 {
		return nil, fmt.Errorf("poll interval and max attempts must be positive")
	}

	switch cfg.StorageDriver {
	case "filesystem":
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase storage")
		}
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// MaxJobLifetime bounds how long a generation may stay in flight.
func (c *Config) MaxJobLifetime() time.Duration {
	return c.PollInterval*time.Duration(c.PollMaxAttempts) + lifetimeGrace
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
