package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradekit/gradekit/internal/models"
)

var _ Gateway = (*StandardGateway)(nil)

func TestCompleteOpenAICompat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"score\": 14}"}}]}`)
	}))
	defer srv.Close()

	gw := New(NewClientSet("sk-test", "", ""), WithOpenAIBaseURL(srv.URL))
	out, err := gw.Complete(context.Background(), models.ProviderOpenAI, "gpt-4", "grade this", nil)
	require.NoError(t, err)
	require.Equal(t, `{"score": 14}`, out)

	require.Equal(t, "gpt-4", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "You are a grading assistant. Respond with JSON only.", got.Messages[0].Content)
	require.Equal(t, "user", got.Messages[1].Role)
	require.Equal(t, "grade this", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	require.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestCompleteOpenAICompatErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		gw := New(NewClientSet("", "", ""))
		_, err := gw.Complete(context.Background(), models.ProviderGroq, "llama3-70b", "p", nil)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrNotConfigured)

		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		require.Equal(t, models.ProviderGroq, provErr.Provider)
	})

	t.Run("server error carries status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "model overloaded"}`, http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		gw := New(NewClientSet("", "", "gsk-test"), WithGroqBaseURL(srv.URL))
		_, err := gw.Complete(context.Background(), models.ProviderGroq, "llama3-70b", "p", nil)
		require.Error(t, err)

		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		require.Equal(t, models.ProviderGroq, provErr.Provider)
		require.Contains(t, err.Error(), "503")
		require.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("empty content defaults to empty object", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices":[]}`)
		}))
		defer srv.Close()

		gw := New(NewClientSet("sk-test", "", ""), WithOpenAIBaseURL(srv.URL))
		out, err := gw.Complete(context.Background(), models.ProviderOpenAI, "gpt-4", "p", nil)
		require.NoError(t, err)
		require.Equal(t, "{}", out)
	})
}

func TestCompleteLocalStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)
		require.Equal(t, "json", req.Format)
		require.Equal(t, "llama3.2", req.Model)

		flusher := w.(http.Flusher)
		for _, frag := range []string{`{"sc`, `ore":`, ` 12}`} {
			chunk := ollamaChunk{}
			chunk.Message.Content = frag
			require.NoError(t, json.NewEncoder(w).Encode(chunk))
			flusher.Flush()
		}
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer srv.Close()

	var progress []string
	gw := New(NewClientSet("", "", ""), WithLocalBaseURL(srv.URL))
	out, err := gw.Complete(context.Background(), models.ProviderLocal, "llama3.2", "grade", func(acc string) {
		progress = append(progress, acc)
	})
	require.NoError(t, err)
	require.Equal(t, `{"score": 12}`, out)

	// One callback per fragment, each carrying the accumulation so far,
	// strictly in arrival order.
	require.Equal(t, []string{`{"sc`, `{"score":`, `{"score": 12}`}, progress)
}

func TestCompleteLocalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"model not found"}`)
	}))
	defer srv.Close()

	gw := New(NewClientSet("", "", ""), WithLocalBaseURL(srv.URL))
	_, err := gw.Complete(context.Background(), models.ProviderLocal, "missing", "p", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "model not found")
}

func TestListModels(t *testing.T) {
	t.Run("local tags", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/tags", r.URL.Path)
			fmt.Fprint(w, `{"models":[{"name":"llama3.2"},{"name":"mistral"}]}`)
		}))
		defer srv.Close()

		gw := New(NewClientSet("", "", ""), WithLocalBaseURL(srv.URL))
		ids, err := gw.ListModels(context.Background(), models.ProviderLocal)
		require.NoError(t, err)
		require.Equal(t, []string{"llama3.2", "mistral"}, ids)
	})

	t.Run("openai filters to gpt families", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/models", r.URL.Path)
			fmt.Fprint(w, `{"data":[{"id":"gpt-4"},{"id":"whisper-1"},{"id":"gpt-3.5-turbo"},{"id":"dall-e-3"}]}`)
		}))
		defer srv.Close()

		gw := New(NewClientSet("sk-test", "", ""), WithOpenAIBaseURL(srv.URL))
		ids, err := gw.ListModels(context.Background(), models.ProviderOpenAI)
		require.NoError(t, err)
		require.Equal(t, []string{"gpt-4", "gpt-3.5-turbo"}, ids)
	})

	t.Run("groq skips inactive models", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[{"id":"llama3-70b","active":true},{"id":"retired","active":false},{"id":"mixtral"}]}`)
		}))
		defer srv.Close()

		gw := New(NewClientSet("", "", "gsk-test"), WithGroqBaseURL(srv.URL))
		ids, err := gw.ListModels(context.Background(), models.ProviderGroq)
		require.NoError(t, err)
		require.Equal(t, []string{"llama3-70b", "mixtral"}, ids)
	})

	t.Run("claude sends version header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/models", r.URL.Path)
			require.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
			require.NotEmpty(t, r.Header.Get("anthropic-version"))
			fmt.Fprint(w, `{"data":[{"id":"claude-3-5-sonnet"},{"id":"claude-3-haiku"}]}`)
		}))
		defer srv.Close()

		gw := New(NewClientSet("", "sk-ant-test", ""), WithAnthropicBaseURL(srv.URL))
		ids, err := gw.ListModels(context.Background(), models.ProviderClaude)
		require.NoError(t, err)
		require.Equal(t, []string{"claude-3-5-sonnet", "claude-3-haiku"}, ids)
	})

	t.Run("unconfigured hosted provider", func(t *testing.T) {
		gw := New(NewClientSet("", "", ""))
		_, err := gw.ListModels(context.Background(), models.ProviderOpenAI)
		require.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestCompleteClaude(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "claude-3-5-sonnet", body["model"])
		require.Equal(t, float64(2000), body["max_tokens"])

		msgs := body["messages"].([]any)
		require.Len(t, msgs, 1, "role prompt is folded into the user message")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg_test",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet",
			"content": [{"type": "text", "text": "{\"score\": 18}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	gw := New(NewClientSet("", "sk-ant-test", ""), WithAnthropicBaseURL(srv.URL))
	out, err := gw.Complete(context.Background(), models.ProviderClaude, "claude-3-5-sonnet", "grade", nil)
	require.NoError(t, err)
	require.Equal(t, `{"score": 18}`, out)
}

func TestValidateKey(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer candidate", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"data":[]}`)
		}))
		defer srv.Close()

		gw := New(NewClientSet("", "", ""), WithOpenAIBaseURL(srv.URL))
		require.NoError(t, gw.ValidateKey(context.Background(), models.ProviderOpenAI, "candidate"))
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		gw := New(NewClientSet("", "", ""), WithGroqBaseURL(srv.URL))
		err := gw.ValidateKey(context.Background(), models.ProviderGroq, "bad")
		require.Error(t, err)
	})

	t.Run("local takes no key", func(t *testing.T) {
		gw := New(NewClientSet("", "", ""))
		err := gw.ValidateKey(context.Background(), models.ProviderLocal, "anything")
		require.ErrorIs(t, err, ErrKeyUnsupported)
	})
}

func TestWithKeyDerivesIndependentGateway(t *testing.T) {
	base := New(NewClientSet("original", "", ""))
	derived := base.WithKey(models.ProviderOpenAI, "override")

	require.Equal(t, "original", base.clients.Key(models.ProviderOpenAI))
	require.Equal(t, "override", derived.(*StandardGateway).clients.Key(models.ProviderOpenAI))
}

func TestValidateStartupKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	gw := New(NewClientSet("bad", "", "good"),
		WithOpenAIBaseURL(srv.URL), WithGroqBaseURL(srv.URL))
	validated := gw.ValidateStartupKeys(context.Background())

	require.False(t, validated.Configured(models.ProviderOpenAI))
	require.True(t, validated.Configured(models.ProviderGroq))
	require.True(t, validated.Configured(models.ProviderLocal))

	// The original gateway keeps its credentials.
	require.True(t, gw.Configured(models.ProviderOpenAI))
}

func TestProviderErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := newProviderError(models.ProviderOpenAI, "chat", inner)
	require.ErrorIs(t, err, inner)
	require.Equal(t, "openai chat: boom", err.Error())
}
