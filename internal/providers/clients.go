package providers

import (
	"maps"

	"github.com/gradekit/gradekit/internal/models"
)

// ClientSet holds per-provider credentials. The local provider carries
// none. A ClientSet is never mutated after construction; per-call key
// overrides derive a copy via WithKey.
type ClientSet struct {
	keys map[models.Provider]string
}

// NewClientSet builds the credential set from startup configuration.
// Empty strings mean the provider is not configured.
func NewClientSet(openaiKey, anthropicKey, groqKey string) *ClientSet {
	return &ClientSet{keys: map[models.Provider]string{
		models.ProviderOpenAI: openaiKey,
		models.ProviderClaude: anthropicKey,
		models.ProviderGroq:   groqKey,
	}}
}

// Key returns the credential for a provider, or "" when unconfigured.
func (c *ClientSet) Key(p models.Provider) string {
	if c == nil {
		return ""
	}
	return c.keys[p]
}

// Configured reports whether the provider can be called. Local needs no
// credential and is always available.
func (c *ClientSet) Configured(p models.Provider) bool {
	if p == models.ProviderLocal {
		return true
	}
	return c.Key(p) != ""
}

// WithKey returns a copy of the set with one provider's credential
// replaced. Setting "" removes the provider from service.
func (c *ClientSet) WithKey(p models.Provider, key string) *ClientSet {
	next := &ClientSet{keys: make(map[models.Provider]string, len(c.keys))}
	maps.Copy(next.keys, c.keys)
	next.keys[p] = key
	return next
}
