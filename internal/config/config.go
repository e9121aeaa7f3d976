package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	UploadDir    string

	// AIProvider selects the reasoning backend: "gemini" or "openai".
	AIProvider string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Per-minute request caps on the AI-backed endpoints, per client IP.
	ChatRateLimit  int
	ImageRateLimit int

	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		DatabasePath:   getEnv("DATABASE_PATH", "quetzal.db"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AIProvider:     strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ChatRateLimit:  getEnvAsInt("CHAT_RATE_LIMIT", 20),
		ImageRateLimit: getEnvAsInt("IMAGE_RATE_LIMIT", 5),
		Environment:    env,
	}

	if strings.ToLower(env) == "production" {
		missing := []string{}
		switch cfg.AIProvider {
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				missing = append(missing, "GEMINI_API_KEY")
			}
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				missing = append(missing, "OPENAI_API_KEY")
			}
		default:
			log.Fatalf("Unknown AI_PROVIDER %q (want gemini or openai)", cfg.AIProvider)
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
