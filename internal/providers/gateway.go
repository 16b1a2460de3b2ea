// Package providers abstracts the LLM backends that grade submissions:
// a local Ollama server plus the OpenAI, Anthropic and Groq hosted APIs.
// Each backend differs in transport, auth and JSON-mode support; the
// Gateway hides those differences behind one call surface.
package providers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gradekit/gradekit/internal/models"
)

const (
	defaultLocalBaseURL  = "http://localhost:11434"
	openaiDefaultBaseURL = "https://api.openai.com/v1"
	groqDefaultBaseURL   = "https://api.groq.com/openai/v1"

	// systemPrompt pins the model to its grading role. Providers without
	// a system message slot get it prefixed into the user prompt.
	systemPrompt = "You are a grading assistant. Respond with JSON only."

	hostedCompleteTimeout = 30 * time.Second
	localCompleteTimeout  = 120 * time.Second
	hostedListTimeout     = 10 * time.Second
	localListTimeout      = 5 * time.Second
)

// ProgressFunc receives the accumulated response text after each streamed
// fragment. Only the local provider streams; fragments arrive strictly in
// order and the callback is never invoked concurrently.
type ProgressFunc func(accumulated string)

// Gateway is the single surface the rest of the system uses to talk to
// LLM backends.
type Gateway interface {
	// Complete sends a grading prompt and returns the raw reply text.
	Complete(ctx context.Context, provider models.Provider, model, prompt string, onProgress ProgressFunc) (string, error)
	// ListModels queries the provider's model-listing endpoint.
	ListModels(ctx context.Context, provider models.Provider) ([]string, error)
	// LocalTags returns the local server's tag listing verbatim, for
	// API passthrough.
	LocalTags(ctx context.Context) (json.RawMessage, error)
	// ValidateKey checks a credential against the provider's live
	// endpoint without storing it.
	ValidateKey(ctx context.Context, provider models.Provider, key string) error
	// WithKey derives a gateway whose credential for one provider is
	// replaced, leaving the receiver untouched.
	WithKey(provider models.Provider, key string) Gateway
}

// StandardGateway implements Gateway over HTTP. It does not retry;
// retry policy belongs to callers.
type StandardGateway struct {
	clients *ClientSet
	httpc   *http.Client
	logger  *slog.Logger

	localBaseURL     string
	openaiBaseURL    string
	groqBaseURL      string
	anthropicBaseURL string
}

// Option configures a StandardGateway.
type Option func(*StandardGateway)

// WithLocalBaseURL points the local provider at a non-default Ollama
// server.
func WithLocalBaseURL(u string) Option {
	return func(g *StandardGateway) {
		if u != "" {
			g.localBaseURL = u
		}
	}
}

// WithOpenAIBaseURL overrides the OpenAI endpoint.
func WithOpenAIBaseURL(u string) Option {
	return func(g *StandardGateway) {
		if u != "" {
			g.openaiBaseURL = u
		}
	}
}

// WithGroqBaseURL overrides the Groq endpoint.
func WithGroqBaseURL(u string) Option {
	return func(g *StandardGateway) {
		if u != "" {
			g.groqBaseURL = u
		}
	}
}

// WithAnthropicBaseURL overrides the Anthropic endpoint.
func WithAnthropicBaseURL(u string) Option {
	return func(g *StandardGateway) {
		if u != "" {
			g.anthropicBaseURL = u
		}
	}
}

// WithHTTPClient substitutes the HTTP client used for raw transports.
func WithHTTPClient(c *http.Client) Option {
	return func(g *StandardGateway) {
		if c != nil {
			g.httpc = c
		}
	}
}

// WithLogger sets the gateway logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *StandardGateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// New builds a gateway over the given credential set.
func New(clients *ClientSet, opts ...Option) *StandardGateway {
	g := &StandardGateway{
		clients:       clients,
		httpc:         &http.Client{},
		logger:        slog.Default(),
		localBaseURL:  defaultLocalBaseURL,
		openaiBaseURL: openaiDefaultBaseURL,
		groqBaseURL:   groqDefaultBaseURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithKey implements the per-call credential override: a shallow copy of
// the gateway bound to a cloned ClientSet.
func (g *StandardGateway) WithKey(provider models.Provider, key string) Gateway {
	next := *g
	next.clients = g.clients.WithKey(provider, key)
	return &next
}

// Complete dispatches to the provider's transport. Unknown providers fall
// through to the local server, mirroring model resolution's default.
func (g *StandardGateway) Complete(ctx context.Context, provider models.Provider, model, prompt string, onProgress ProgressFunc) (string, error) {
	g.logger.Debug("provider call", "provider", provider, "model", model, "prompt_length", len(prompt))

	switch provider {
	case models.ProviderOpenAI:
		return g.completeOpenAICompat(ctx, models.ProviderOpenAI, g.openaiBaseURL, model, prompt)
	case models.ProviderGroq:
		return g.completeOpenAICompat(ctx, models.ProviderGroq, g.groqBaseURL, model, prompt)
	case models.ProviderClaude:
		return g.completeClaude(ctx, model, prompt)
	default:
		return g.completeLocal(ctx, model, prompt, onProgress)
	}
}

// ListModels queries one provider's catalog. Unconfigured hosted
// providers report ErrNotConfigured.
func (g *StandardGateway) ListModels(ctx context.Context, provider models.Provider) ([]string, error) {
	switch provider {
	case models.ProviderOpenAI:
		return g.listOpenAI(ctx)
	case models.ProviderGroq:
		return g.listGroq(ctx)
	case models.ProviderClaude:
		return g.listClaude(ctx)
	default:
		return g.listLocal(ctx)
	}
}

// ValidateKey probes the provider's listing endpoint with the candidate
// key. The local provider has no credentials, so any key is rejected.
func (g *StandardGateway) ValidateKey(ctx context.Context, provider models.Provider, key string) error {
	switch provider {
	case models.ProviderOpenAI:
		return g.probeOpenAICompat(ctx, models.ProviderOpenAI, g.openaiBaseURL, key)
	case models.ProviderGroq:
		return g.probeOpenAICompat(ctx, models.ProviderGroq, g.groqBaseURL, key)
	case models.ProviderClaude:
		return g.probeClaude(ctx, key)
	default:
		return newProviderError(provider, "validate", ErrKeyUnsupported)
	}
}

// ValidateStartupKeys verifies every configured hosted credential against
// its live endpoint and returns a gateway keeping only the keys that
// passed. Failures are logged as warnings, never fatal.
func (g *StandardGateway) ValidateStartupKeys(ctx context.Context) *StandardGateway {
	clients := g.clients
	for _, p := range models.HostedProviders() {
		key := clients.Key(p)
		if key == "" {
			continue
		}
		if err := g.ValidateKey(ctx, p, key); err != nil {
			g.logger.Warn("dropping credential that failed validation", "provider", p, "error", err)
			clients = clients.WithKey(p, "")
		}
	}
	next := *g
	next.clients = clients
	return &next
}

// Configured reports whether a provider is callable with the gateway's
// current credential set.
func (g *StandardGateway) Configured(p models.Provider) bool {
	return g.clients.Configured(p)
}
