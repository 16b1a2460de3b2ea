package providers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gradekit/gradekit/internal/models"
)

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

// ollamaChunk is one NDJSON line of a streamed chat response.
type ollamaChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// completeLocal streams a chat completion from the local Ollama server,
// appending fragments in arrival order. After every fragment the progress
// callback receives the accumulation so far; a single connection and a
// single reader goroutine guarantee ordering.
func (g *StandardGateway) completeLocal(ctx context.Context, model, prompt string, onProgress ProgressFunc) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: true,
		Format: "json",
	})
	if err != nil {
		return "", newProviderError(models.ProviderLocal, "chat", fmt.Errorf("marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, localCompleteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.localBaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", newProviderError(models.ProviderLocal, "chat", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", newProviderError(models.ProviderLocal, "chat", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newProviderError(models.ProviderLocal, "chat", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", newProviderError(models.ProviderLocal, "chat", fmt.Errorf("decode stream chunk: %w", err))
		}
		if chunk.Error != "" {
			return "", newProviderError(models.ProviderLocal, "chat", fmt.Errorf("server error: %s", chunk.Error))
		}
		if chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			if onProgress != nil {
				onProgress(full.String())
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", newProviderError(models.ProviderLocal, "chat", fmt.Errorf("read stream: %w", err))
	}

	return full.String(), nil
}

// listLocal queries the Ollama tag listing.
func (g *StandardGateway) listLocal(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, localListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.localBaseURL+"/api/tags", nil)
	if err != nil {
		return nil, newProviderError(models.ProviderLocal, "list models", fmt.Errorf("build request: %w", err))
	}

	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, newProviderError(models.ProviderLocal, "list models", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newProviderError(models.ProviderLocal, "list models", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed ollamaTags
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newProviderError(models.ProviderLocal, "list models", fmt.Errorf("decode response: %w", err))
	}

	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// LocalTags returns the raw tag-listing payload for API passthrough.
func (g *StandardGateway) LocalTags(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, localListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.localBaseURL+"/api/tags", nil)
	if err != nil {
		return nil, newProviderError(models.ProviderLocal, "list models", fmt.Errorf("build request: %w", err))
	}

	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, newProviderError(models.ProviderLocal, "list models", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newProviderError(models.ProviderLocal, "list models", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, newProviderError(models.ProviderLocal, "list models", fmt.Errorf("decode response: %w", err))
	}
	return raw, nil
}
