package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Groq (OpenAI-compatible chat completions)
	GroqAPIKey      string
	GroqAPIURL      string
	GroqTextModel   string
	GroqVisionModel string
	AITimeout       time.Duration

	// Government data sources
	CamaraAPIURL    string
	PropositionYear int
	DOUBaseURL      string
	DOUCacheTTL     time.Duration

	// Storage
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	// Geocoding
	NominatimURL string

	// Rewards catalogue (YAML); empty uses the embedded default
	RewardsConfigPath string

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port             string
	CORSOrigins      string
	LogRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "civicux"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqAPIURL:      getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqTextModel:   getEnv("GROQ_TEXT_MODEL", "llama-3.3-70b-versatile"),
		GroqVisionModel: getEnv("GROQ_VISION_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
		AITimeout:       parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		CamaraAPIURL:    getEnv("CAMARA_API_URL", "https://dadosabertos.camara.leg.br/api/v2"),
		PropositionYear: getInt("PROPOSITION_YEAR", 2024),
		DOUBaseURL:      getEnv("DOU_BASE_URL", "https://www.in.gov.br"),
		DOUCacheTTL:     parseDuration(getEnv("DOU_CACHE_TTL", "10m"), 10*time.Minute),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "uploads"),

		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),

		RewardsConfigPath: getEnv("REWARDS_CONFIG_PATH", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:             getEnv("PORT", "3000"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		LogRetentionDays: getInt("LOG_RETENTION_DAYS", 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
