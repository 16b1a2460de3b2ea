// Package config loads provider credentials and endpoint overrides from
// the environment, with optional .env support.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names for provider credentials. The values are
// secrets: log the names, never the values.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGroqKey      = "GROQ_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
	EnvDefaultModel = "DEFAULT_MODEL"
)

// Credentials holds provider API keys and endpoint overrides read from
// the environment. Every field is optional; an empty key simply leaves
// that provider unconfigured.
type Credentials struct {
	OpenAIKey    string
	AnthropicKey string
	GroqKey      string
	OllamaHost   string
	DefaultModel string
}

// Load reads credentials from the environment, first folding in a .env
// file when one exists in the working directory.
func Load() *Credentials {
	_ = godotenv.Load()
	return &Credentials{
		OpenAIKey:    os.Getenv(EnvOpenAIKey),
		AnthropicKey: os.Getenv(EnvAnthropicKey),
		GroqKey:      os.Getenv(EnvGroqKey),
		OllamaHost:   os.Getenv(EnvOllamaHost),
		DefaultModel: os.Getenv(EnvDefaultModel),
	}
}

// ConfiguredNames returns the names of the credential variables that are
// set, for startup logging.
func (c *Credentials) ConfiguredNames() []string {
	var names []string
	if c.OpenAIKey != "" {
		names = append(names, EnvOpenAIKey)
	}
	if c.AnthropicKey != "" {
		names = append(names, EnvAnthropicKey)
	}
	if c.GroqKey != "" {
		names = append(names, EnvGroqKey)
	}
	return names
}
