package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Setup holds all fields collected during the interactive setup wizard.
// Empty keys mean the provider stays unconfigured.
type Setup struct {
	OpenAIKey    string
	AnthropicKey string
	GroqKey      string
	DefaultModel string
}

const envTemplate = `# Credentials for gradekit. Keep this file out of version control.
{{- if .OpenAIKey }}
OPENAI_API_KEY={{ .OpenAIKey }}
{{- end }}
{{- if .AnthropicKey }}
ANTHROPIC_API_KEY={{ .AnthropicKey }}
{{- end }}
{{- if .GroqKey }}
GROQ_API_KEY={{ .GroqKey }}
{{- end }}
{{- if .DefaultModel }}
DEFAULT_MODEL={{ .DefaultModel }}
{{- end }}
`

// RunSetupWizard runs an interactive huh form to collect provider
// credentials and a default model. initial pre-populates the fields, so
// re-running setup keeps values already configured.
func RunSetupWizard(in io.Reader, out io.Writer, initial Setup) (*Setup, error) {
	var (
		openaiKey    = initial.OpenAIKey
		anthropicKey = initial.AnthropicKey
		groqKey      = initial.GroqKey
		defaultModel = initial.DefaultModel
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Leave blank to skip OpenAI models").
				EchoMode(huh.EchoModePassword).
				Value(&openaiKey),
			huh.NewInput().
				Title("Anthropic API key").
				Description("Leave blank to skip Claude models").
				EchoMode(huh.EchoModePassword).
				Value(&anthropicKey),
			huh.NewInput().
				Title("Groq API key").
				Description("Leave blank to skip Groq models").
				EchoMode(huh.EchoModePassword).
				Value(&groqKey),
			huh.NewInput().
				Title("Default model").
				Description("Model used when a request names none").
				Placeholder("llama3.2").
				Value(&defaultModel),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &Setup{
		OpenAIKey:    strings.TrimSpace(openaiKey),
		AnthropicKey: strings.TrimSpace(anthropicKey),
		GroqKey:      strings.TrimSpace(groqKey),
		DefaultModel: strings.TrimSpace(defaultModel),
	}, nil
}

// GenerateEnv renders .env content from the setup, one line per configured
// value.
func GenerateEnv(s *Setup) (string, error) {
	tmpl, err := template.New("env").Parse(envTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// WriteEnvFile writes the rendered .env to path. The file stays
// owner-readable only, since it holds credentials.
func WriteEnvFile(path string, s *Setup) error {
	content, err := GenerateEnv(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// MaskKey returns a display-safe form of a credential: a short prefix
// followed by asterisks. Short keys mask entirely.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "****"
}
