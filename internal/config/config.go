// Package config loads configuration from the environment and wires the
// application logger.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported LLM providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM generation
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	OpenAIOrg       string
	AnthropicAPIKey string
	OllamaHost      string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Cross-conversation context injection
	ContextMessages  int
	ContextHoursBack int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "chatia"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "conversations"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     strings.ToLower(getEnv("CHATIA_LLM_PROVIDER", ProviderOpenAI)),
		LLMModel:        getEnv("CHATIA_LLM_MODEL", "gpt-3.5-turbo"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIOrg:       getEnv("OPENAI_ORG", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		LogFile:  getEnv("CHATIA_LOG_FILE", "/tmp/chatia.log"),
		LogLevel: parseLogLevel(getEnv("CHATIA_LOG_LEVEL", "INFO")),

		ContextMessages:  getEnvInt("CHATIA_CONTEXT_MESSAGES", 10),
		ContextHoursBack: getEnvInt("CHATIA_CONTEXT_HOURS", 24),
	}
}

// HasLLMCredentials reports whether the configured provider can be used.
// Ollama needs no key; the hosted providers do.
func (c Config) HasLLMCredentials() bool {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderOllama:
		return true
	default:
		return false
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
