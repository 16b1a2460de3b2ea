// Package registry maintains the catalog of models reachable through the
// configured providers and resolves model names back to their provider.
package registry

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/providers"
)

// Registry caches per-provider model listings. Refresh replaces the
// whole snapshot at once, so readers never observe a half-updated
// catalog.
type Registry struct {
	gw     providers.Gateway
	logger *slog.Logger

	mu         sync.RWMutex
	byProvider map[models.Provider][]string
	fresh      bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry backed by the given gateway. The catalog
// populates on the first Refresh, or lazily on first resolution.
func New(gw providers.Gateway, opts ...Option) *Registry {
	r := &Registry{
		gw:         gw,
		logger:     slog.Default(),
		byProvider: make(map[models.Provider][]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh queries every provider's listing endpoint concurrently and
// swaps in the combined result. A provider that is down or lacks a
// credential contributes an empty list; that is a warning, never a
// failure, so one dead backend cannot hide the others.
func (r *Registry) Refresh(ctx context.Context) {
	all := models.AllProviders()
	listings := make([][]string, len(all))

	eg := errgroup.Group{}
	for i, p := range all {
		eg.Go(func() error {
			ids, err := r.gw.ListModels(ctx, p)
			if err != nil {
				r.logger.Warn("model listing unavailable", "provider", p, "error", err)
				return nil
			}
			listings[i] = ids
			return nil
		})
	}
	eg.Wait() //nolint:errcheck

	next := make(map[models.Provider][]string, len(all))
	for i, p := range all {
		next[p] = listings[i]
	}

	r.mu.Lock()
	r.byProvider = next
	r.fresh = true
	r.mu.Unlock()
}

// ensureFresh populates the catalog on first use.
func (r *Registry) ensureFresh(ctx context.Context) {
	r.mu.RLock()
	fresh := r.fresh
	r.mu.RUnlock()
	if !fresh {
		r.Refresh(ctx)
	}
}

// ResolveProvider maps a model name to the provider that advertises it.
// Names no provider claims resolve to the local server, with a warning,
// so a typo degrades to a connection error instead of a hard stop.
func (r *Registry) ResolveProvider(ctx context.Context, model string) models.Provider {
	r.ensureFresh(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range models.AllProviders() {
		if slices.Contains(r.byProvider[p], model) {
			return p
		}
	}
	r.logger.Warn("model not in any provider catalog, assuming local", "model", model)
	return models.ProviderLocal
}

// List returns the cached listing for one provider.
func (r *Registry) List(provider models.Provider) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byProvider[provider])
}

// Names returns every known model name, grouped by provider in a stable
// order. This is the flat list the health endpoint reports.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, 16)
	for _, p := range models.AllProviders() {
		names = append(names, r.byProvider[p]...)
	}
	return names
}

// Snapshot returns a copy of the whole catalog.
func (r *Registry) Snapshot() map[models.Provider][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[models.Provider][]string, len(r.byProvider))
	for p, ids := range r.byProvider {
		out[p] = slices.Clone(ids)
	}
	return out
}
