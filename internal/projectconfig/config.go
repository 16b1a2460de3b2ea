// Package projectconfig provides the ProjectConfig struct and loader for
// .gradekit.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. New() references these and no
// other code should duplicate them.
const (
	DefaultModel   = "llama3.2"
	DefaultWorkers = 4

	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8000

	DefaultLocalBaseURL = "http://localhost:11434"
)

// DefaultsConfig holds default grading parameters.
type DefaultsConfig struct {
	Model   string `yaml:"model,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
}

// ServerConfig holds grading API server settings.
type ServerConfig struct {
	Host    string   `yaml:"host,omitempty"`
	Port    int      `yaml:"port,omitempty"`
	Origins []string `yaml:"origins,omitempty"`
}

// ProvidersConfig holds provider endpoint overrides.
type ProvidersConfig struct {
	LocalBaseURL string `yaml:"local_base_url,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .gradekit.yaml.
type ProjectConfig struct {
	Defaults  DefaultsConfig  `yaml:"defaults,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
	Providers ProvidersConfig `yaml:"providers,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Defaults: DefaultsConfig{
			Model:   DefaultModel,
			Workers: DefaultWorkers,
		},
		Server: ServerConfig{
			Host:    DefaultServerHost,
			Port:    DefaultServerPort,
			Origins: []string{"*"},
		},
		Providers: ProvidersConfig{
			LocalBaseURL: DefaultLocalBaseURL,
		},
	}
}

// Load finds .gradekit.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .gradekit.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .gradekit.yaml: %w", err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .gradekit.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".gradekit.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Defaults
	if src.Defaults.Model != "" {
		dst.Defaults.Model = src.Defaults.Model
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}

	// Server
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.Origins) > 0 {
		dst.Server.Origins = src.Server.Origins
	}

	// Providers
	if src.Providers.LocalBaseURL != "" {
		dst.Providers.LocalBaseURL = src.Providers.LocalBaseURL
	}
}
