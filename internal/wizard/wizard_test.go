package wizard

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEnv_AllFields(t *testing.T) {
	s := &Setup{
		OpenAIKey:    "sk-openai-123",
		AnthropicKey: "sk-ant-456",
		GroqKey:      "gsk-789",
		DefaultModel: "gpt-4",
	}

	content, err := GenerateEnv(s)
	require.NoError(t, err)

	assert.Contains(t, content, "OPENAI_API_KEY=sk-openai-123")
	assert.Contains(t, content, "ANTHROPIC_API_KEY=sk-ant-456")
	assert.Contains(t, content, "GROQ_API_KEY=gsk-789")
	assert.Contains(t, content, "DEFAULT_MODEL=gpt-4")
	assert.True(t, strings.HasPrefix(content, "# Credentials for gradekit"))
}

func TestGenerateEnv_SkipsBlankFields(t *testing.T) {
	s := &Setup{GroqKey: "gsk-789"}

	content, err := GenerateEnv(s)
	require.NoError(t, err)

	assert.Contains(t, content, "GROQ_API_KEY=gsk-789")
	assert.NotContains(t, content, "OPENAI_API_KEY")
	assert.NotContains(t, content, "ANTHROPIC_API_KEY")
	assert.NotContains(t, content, "DEFAULT_MODEL")
}

func TestGenerateEnv_Empty(t *testing.T) {
	content, err := GenerateEnv(&Setup{})
	require.NoError(t, err)

	// Just the header comment survives.
	assert.Equal(t, "# Credentials for gradekit. Keep this file out of version control.\n", content)
}

func TestWriteEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	s := &Setup{OpenAIKey: "sk-openai-123", DefaultModel: "llama3.2"}

	require.NoError(t, WriteEnvFile(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "OPENAI_API_KEY=sk-openai-123")
	assert.Contains(t, string(data), "DEFAULT_MODEL=llama3.2")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short key masks entirely", "abc123", "******"},
		{"long key keeps prefix", "sk-proj-abcdef123456", "sk-p****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskKey(tt.key))
		})
	}
}
