package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	ServerPort     string
	AllowedOrigins []string

	// Upstream completion provider (used by the proxy)
	AIProvider        string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	AnthropicAPIKey   string
	OllamaURL         string
	OllamaModel       string

	// Completion endpoint used by the chat. Empty means call the upstream
	// provider in-process instead of going through an HTTP endpoint.
	CompletionURL    string
	CompletionAPIKey string

	// Inventory
	InventorySource string
	InventoryFile   string

	// Database (only used when InventorySource is "postgres")
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Chat behaviour
	AutoNarrate  bool
	BookingEmail string
	TypingSeed   int64
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		AIProvider:        getEnv("AI_PROVIDER", "openrouter"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "mistral"),

		CompletionURL:    os.Getenv("COMPLETION_URL"),
		CompletionAPIKey: os.Getenv("COMPLETION_API_KEY"),

		InventorySource: getEnv("INVENTORY_SOURCE", "builtin"),
		InventoryFile:   getEnv("INVENTORY_FILE", "inventory.yaml"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "dealership"),

		AutoNarrate:  getBool("AUTO_NARRATE", false),
		BookingEmail: getEnv("BOOKING_EMAIL", "sales@abena-motors.example"),
		TypingSeed:   getInt64("TYPING_SEED", 0),
	}

	// Validate AI provider configuration
	switch config.AIProvider {
	case "openrouter":
		if config.OpenRouterAPIKey == "" {
			log.Println("WARNING: OPENROUTER_API_KEY not set")
		}
	case "anthropic":
		if config.AnthropicAPIKey == "" {
			log.Println("WARNING: ANTHROPIC_API_KEY not set")
		}
	case "ollama":
		if config.OllamaURL == "" {
			log.Println("WARNING: OLLAMA_URL not set")
		}
	default:
		log.Printf("WARNING: Unknown AI_PROVIDER: %s (using openrouter as fallback)\n", config.AIProvider)
		config.AIProvider = "openrouter"
	}

	switch config.InventorySource {
	case "builtin", "yaml", "postgres":
	default:
		log.Printf("WARNING: Unknown INVENTORY_SOURCE: %s (using builtin)\n", config.InventorySource)
		config.InventorySource = "builtin"
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
