package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/gradekit/gradekit/internal/models"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	claudeMaxTokens         = 2000
)

func (g *StandardGateway) anthropicBase() string {
	if g.anthropicBaseURL != "" {
		return g.anthropicBaseURL
	}
	return anthropicDefaultBaseURL
}

func (g *StandardGateway) claudeClient(key string) anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithHTTPClient(g.httpc),
	}
	if g.anthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(g.anthropicBaseURL))
	}
	return anthropic.NewClient(opts...)
}

// completeClaude calls the messages API. The API has no JSON response
// mode, so the role prompt is prefixed into the user message and the JSON
// shape is requested in the prompt itself.
func (g *StandardGateway) completeClaude(ctx context.Context, model, prompt string) (string, error) {
	key := g.clients.Key(models.ProviderClaude)
	if key == "" {
		return "", newProviderError(models.ProviderClaude, "chat", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, hostedCompleteTimeout)
	defer cancel()

	client := g.claudeClient(key)
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(systemPrompt + "\n\n" + prompt),
			},
		}},
	})
	if err != nil {
		return "", newProviderError(models.ProviderClaude, "chat", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "{}", nil
}

// listClaude queries the models endpoint directly; the listing shape is
// simple enough that the raw call mirrors validation exactly.
func (g *StandardGateway) listClaude(ctx context.Context) ([]string, error) {
	key := g.clients.Key(models.ProviderClaude)
	if key == "" {
		return nil, newProviderError(models.ProviderClaude, "list models", ErrNotConfigured)
	}

	entries, err := g.fetchClaudeModels(ctx, key, "list models")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (g *StandardGateway) probeClaude(ctx context.Context, key string) error {
	_, err := g.fetchClaudeModels(ctx, key, "validate")
	return err
}

func (g *StandardGateway) fetchClaudeModels(ctx context.Context, key, op string) ([]modelEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, hostedListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.anthropicBase()+"/v1/models", nil)
	if err != nil {
		return nil, newProviderError(models.ProviderClaude, op, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, newProviderError(models.ProviderClaude, op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newProviderError(models.ProviderClaude, op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed modelList
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newProviderError(models.ProviderClaude, op, fmt.Errorf("decode response: %w", err))
	}
	return parsed.Data, nil
}
