package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDuplicateID is returned by Register when a plugin's ID is already
// taken. Two bundles declaring the same ID is a configuration bug; the
// registry refuses to mask it by overwriting.
var ErrDuplicateID = errors.New("plugin ID already registered")

// Registry is the authoritative catalog of registered plugins. It indexes
// by ID and by product category, aggregates routes, and drives the
// activation sweep. Registration order is part of the observable contract:
// snapshots preserve it and the first plugin to claim a category keeps it.
type Registry struct {
	plugins    map[string]*Descriptor
	order      []string
	categories map[string]string
	mu         sync.RWMutex
	logger     *logrus.Logger
}

// ActivationResult is one plugin's outcome from an ActivateAll sweep.
type ActivationResult struct {
	PluginID string
	Duration time.Duration
	Err      error
}

// NewRegistry creates an empty registry. A nil logger falls back to the
// standard logrus logger.
func NewRegistry(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		plugins:    make(map[string]*Descriptor),
		categories: make(map[string]string),
		logger:     logger,
	}
}

// Register adds desc to the catalog and indexes its categories. Categories
// already claimed by an earlier registration are left untouched.
func (r *Registry) Register(desc *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if desc.ID == "" {
		return fmt.Errorf("plugin ID cannot be empty")
	}
	if len(desc.Categories) == 0 {
		return fmt.Errorf("plugin %s declares no categories", desc.ID)
	}
	if _, exists := r.plugins[desc.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, desc.ID)
	}

	r.plugins[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	for _, category := range desc.Categories {
		if _, taken := r.categories[category]; !taken {
			r.categories[category] = desc.ID
		}
	}

	r.logger.WithFields(logrus.Fields{
		"plugin":     desc.ID,
		"categories": desc.Categories,
	}).Info("Plugin registered")
	return nil
}

// Unregister removes the plugin with the given ID from the catalog and
// from every category entry pointing to it. Unknown IDs are a no-op so
// cleanup code can call it speculatively.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; !exists {
		return
	}

	delete(r.plugins, id)
	for i, entry := range r.order {
		if entry == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for category, owner := range r.categories {
		if owner == id {
			delete(r.categories, category)
		}
	}

	r.logger.WithField("plugin", id).Info("Plugin unregistered")
}

// GetPlugin retrieves a plugin by ID.
func (r *Registry) GetPlugin(id string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, exists := r.plugins[id]
	return desc, exists
}

// GetPluginForCategory resolves the owning plugin for a category. An
// unclaimed category is an expected state, not an error.
func (r *Registry) GetPluginForCategory(category string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, exists := r.categories[category]
	if !exists {
		return nil, false
	}
	desc, exists := r.plugins[id]
	return desc, exists
}

// GetCapabilitiesForCategory returns the capability list of the plugin
// owning category, or an empty list when none does.
func (r *Registry) GetCapabilitiesForCategory(category string) []string {
	desc, ok := r.GetPluginForCategory(category)
	if !ok {
		return []string{}
	}
	return append([]string{}, desc.Capabilities...)
}

// GetAllPlugins returns a snapshot of every registered plugin in
// registration order.
func (r *Registry) GetAllPlugins() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]*Descriptor, 0, len(r.order))
	for _, id := range r.order {
		if desc, exists := r.plugins[id]; exists {
			plugins = append(plugins, desc)
		}
	}
	return plugins
}

// GetAllRoutes concatenates every registered plugin's routes in
// registration order. Recomputed per call so it always reflects the
// current catalog.
func (r *Registry) GetAllRoutes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]Route, 0)
	for _, id := range r.order {
		if desc, exists := r.plugins[id]; exists {
			routes = append(routes, desc.Routes...)
		}
	}
	return routes
}

// ActivateAll runs every plugin's OnActivate hook concurrently and waits
// for all of them to settle. One plugin failing or panicking never aborts
// the others; each outcome is logged and reported in the results, ordered
// by registration. Plugins without a hook settle as immediate successes.
func (r *Registry) ActivateAll(ctx context.Context, host Host) []ActivationResult {
	plugins := r.GetAllPlugins()
	results := make([]ActivationResult, len(plugins))

	var wg sync.WaitGroup
	for i, desc := range plugins {
		wg.Add(1)
		go func(i int, desc *Descriptor) {
			defer wg.Done()
			results[i] = r.activate(ctx, host, desc)
		}(i, desc)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			r.logger.WithFields(logrus.Fields{
				"plugin": res.PluginID,
				"error":  res.Err,
			}).Error("Plugin activation failed")
		}
	}
	return results
}

// activate runs one hook behind a recover boundary. A panicking hook is
// reported as that plugin's activation error.
func (r *Registry) activate(ctx context.Context, host Host, desc *Descriptor) (res ActivationResult) {
	res.PluginID = desc.ID
	if desc.OnActivate == nil {
		return res
	}

	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("activation panic: %v", rec)
		}
	}()

	res.Err = desc.OnActivate(ctx, host)
	return res
}
