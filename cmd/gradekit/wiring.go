package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gradekit/gradekit/internal/config"
	"github.com/gradekit/gradekit/internal/evaluate"
	"github.com/gradekit/gradekit/internal/projectconfig"
	"github.com/gradekit/gradekit/internal/providers"
	"github.com/gradekit/gradekit/internal/registry"
)

// app bundles the pieces every grading command needs: project config,
// credentials, the provider gateway, the model registry, and the evaluator.
type app struct {
	cfg   *projectconfig.ProjectConfig
	creds *config.Credentials
	gw    *providers.StandardGateway
	reg   *registry.Registry
	eval  *evaluate.Evaluator
}

// newApp loads configuration and assembles the grading stack. When
// validateKeys is set, every configured hosted credential is probed against
// its provider and dropped (with a warning) if it fails; the server does
// this once at startup, one-shot commands skip the extra round trips.
func newApp(ctx context.Context, validateKeys bool) (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	cfg, err := projectconfig.Load(cwd)
	if err != nil {
		return nil, err
	}
	creds := config.Load()

	var opts []providers.Option
	// OLLAMA_HOST wins over the project file's local_base_url.
	localBase := cfg.Providers.LocalBaseURL
	if creds.OllamaHost != "" {
		localBase = creds.OllamaHost
	}
	if localBase != "" {
		opts = append(opts, providers.WithLocalBaseURL(localBase))
	}

	gw := providers.New(providers.NewClientSet(creds.OpenAIKey, creds.AnthropicKey, creds.GroqKey), opts...)
	if validateKeys {
		gw = gw.ValidateStartupKeys(ctx)
	}

	reg := registry.New(gw)

	// DEFAULT_MODEL wins over the project file's defaults.model.
	model := cfg.Defaults.Model
	if creds.DefaultModel != "" {
		model = creds.DefaultModel
	}
	eval := evaluate.New(gw, reg, evaluate.WithDefaultModel(model))

	return &app{
		cfg:   cfg,
		creds: creds,
		gw:    gw,
		reg:   reg,
		eval:  eval,
	}, nil
}
