package models

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGroq   Provider = "groq"
)

// HostedProviders lists the providers that authenticate with an API key.
// The local inference server needs none.
func HostedProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderClaude, ProviderGroq}
}

// AllProviders lists every known provider, local first.
func AllProviders() []Provider {
	return []Provider{ProviderLocal, ProviderOpenAI, ProviderClaude, ProviderGroq}
}

// Valid reports whether p is one of the known provider tags.
func (p Provider) Valid() bool {
	switch p {
	case ProviderLocal, ProviderOpenAI, ProviderClaude, ProviderGroq:
		return true
	}
	return false
}

// ProviderModel pairs a model identifier with its owning provider.
type ProviderModel struct {
	Name     string   `json:"name"`
	Provider Provider `json:"provider"`
}
