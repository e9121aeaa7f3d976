package ai

import "fmt"

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Which backend answers reasoning calls.
	Provider string

	// Gemini configuration.
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI-compatible configuration.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Model parameters shared by both backends.
	Temperature float32
}

func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		GeminiModel: "gemini-1.5-flash",
		OpenAIModel: "gpt-4o-mini",
		Temperature: 0.1,
	}
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
		if c.GeminiModel == "" {
			return fmt.Errorf("GEMINI_MODEL is required")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
		if c.OpenAIModel == "" {
			return fmt.Errorf("OPENAI_MODEL is required")
		}
	default:
		return fmt.Errorf("unknown AI provider %q", c.Provider)
	}
	return nil
}
