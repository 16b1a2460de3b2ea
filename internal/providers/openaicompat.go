package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gradekit/gradekit/internal/models"
)

// OpenAI and Groq speak the same chat-completions dialect; only the base
// URL and credential differ.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelList struct {
	Data []modelEntry `json:"data"`
}

type modelEntry struct {
	ID     string `json:"id"`
	Active *bool  `json:"active,omitempty"`
}

func (g *StandardGateway) completeOpenAICompat(ctx context.Context, provider models.Provider, baseURL, model, prompt string) (string, error) {
	key := g.clients.Key(provider)
	if key == "" {
		return "", newProviderError(provider, "chat", ErrNotConfigured)
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", newProviderError(provider, "chat", fmt.Errorf("marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, hostedCompleteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", newProviderError(provider, "chat", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", newProviderError(provider, "chat", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", newProviderError(provider, "chat",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", newProviderError(provider, "chat", fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "{}", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// listOpenAI returns the chat-capable OpenAI catalog, filtered to the
// gpt-3/gpt-4 families the grader actually uses.
func (g *StandardGateway) listOpenAI(ctx context.Context) ([]string, error) {
	entries, err := g.fetchModels(ctx, models.ProviderOpenAI, g.openaiBaseURL, g.clients.Key(models.ProviderOpenAI))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if strings.HasPrefix(e.ID, "gpt-3") || strings.HasPrefix(e.ID, "gpt-4") {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// listGroq returns Groq's catalog, skipping models flagged inactive. A
// missing flag counts as active.
func (g *StandardGateway) listGroq(ctx context.Context) ([]string, error) {
	entries, err := g.fetchModels(ctx, models.ProviderGroq, g.groqBaseURL, g.clients.Key(models.ProviderGroq))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.Active == nil || *e.Active {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

func (g *StandardGateway) fetchModels(ctx context.Context, provider models.Provider, baseURL, key string) ([]modelEntry, error) {
	if key == "" {
		return nil, newProviderError(provider, "list models", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, hostedListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return nil, newProviderError(provider, "list models", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, newProviderError(provider, "list models", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newProviderError(provider, "list models", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed modelList
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newProviderError(provider, "list models", fmt.Errorf("decode response: %w", err))
	}
	return parsed.Data, nil
}

// probeOpenAICompat checks a candidate credential by listing models with
// it. Any 2xx means the key is live.
func (g *StandardGateway) probeOpenAICompat(ctx context.Context, provider models.Provider, baseURL, key string) error {
	ctx, cancel := context.WithTimeout(ctx, hostedListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return newProviderError(provider, "validate", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return newProviderError(provider, "validate", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newProviderError(provider, "validate", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}
