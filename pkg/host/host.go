// Package host composes the event bus, plugin registry, task scheduler and
// metrics into the service surface plugins see.
package host

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/config"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/events"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/metrics"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/plugin"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/tasks"
)

// Host wires the application core together and implements plugin.Host.
type Host struct {
	bus       *events.Bus
	registry  *plugin.Registry
	scheduler *tasks.Scheduler
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	cfg       *config.Config

	mu         sync.RWMutex
	activation []plugin.ActivationResult
}

// New builds a host around cfg. Collectors register with reg; tests pass a
// fresh prometheus registry for isolation.
func New(cfg *config.Config, logger *logrus.Logger, reg prometheus.Registerer) *Host {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	h := &Host{
		bus:       events.NewBus(logger),
		registry:  plugin.NewRegistry(logger),
		scheduler: tasks.NewScheduler(logger),
		metrics:   metrics.New(reg),
		logger:    logger,
		cfg:       cfg,
	}

	h.bus.OnFault(func(eventType string) {
		h.metrics.HandlerFaults.WithLabelValues(eventType).Inc()
	})
	h.bus.SubscribeAll(func(ev events.Event) {
		h.metrics.EventsPublished.WithLabelValues(ev.Type).Inc()
	})

	return h
}

// Bus returns the application event bus.
func (h *Host) Bus() *events.Bus { return h.bus }

// Registry returns the plugin registry.
func (h *Host) Registry() *plugin.Registry { return h.registry }

// Register adds a plugin to the registry, honoring the configured disable
// list.
func (h *Host) Register(desc *plugin.Descriptor) error {
	if h.cfg.PluginDisabled(desc.ID) {
		h.logger.WithField("plugin", desc.ID).Info("Plugin disabled by configuration")
		return nil
	}
	if err := h.registry.Register(desc); err != nil {
		return err
	}
	h.metrics.PluginsActive.Set(float64(len(h.registry.GetAllPlugins())))
	return nil
}

// Unregister removes a plugin from the registry.
func (h *Host) Unregister(id string) {
	h.registry.Unregister(id)
	h.metrics.PluginsActive.Set(float64(len(h.registry.GetAllPlugins())))
}

// Activate runs the activation sweep over every registered plugin, records
// the outcomes, and announces each success on the bus. It never fails;
// individual plugin errors are in the returned results.
func (h *Host) Activate(ctx context.Context) []plugin.ActivationResult {
	results := h.registry.ActivateAll(ctx, h)

	h.mu.Lock()
	h.activation = results
	h.mu.Unlock()

	for _, res := range results {
		if res.Err != nil {
			h.metrics.Activations.WithLabelValues("failure").Inc()
			continue
		}
		h.metrics.Activations.WithLabelValues("success").Inc()
		if desc, ok := h.registry.GetPlugin(res.PluginID); ok {
			h.bus.Publish(events.New(events.EventPluginActivated, events.PluginActivated{
				PluginID:   desc.ID,
				Categories: desc.Categories,
				Duration:   res.Duration,
			}, events.Source{System: "nexus", Module: "host"}))
		}
	}

	h.logger.WithFields(logrus.Fields{
		"plugins":  len(results),
		"failures": countFailures(results),
	}).Info("Plugin activation sweep complete")
	return results
}

// ActivationReport returns the outcomes of the last Activate call.
func (h *Host) ActivationReport() []plugin.ActivationResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]plugin.ActivationResult{}, h.activation...)
}

// Start launches the background task scheduler.
func (h *Host) Start() {
	h.scheduler.Start()
}

// Shutdown stops the background task scheduler.
func (h *Host) Shutdown() error {
	return h.scheduler.Stop()
}

// Logger implements plugin.Host.
func (h *Host) Logger() *logrus.Logger { return h.logger }

// Publish implements plugin.Host.
func (h *Host) Publish(event events.Event) {
	h.bus.Publish(event)
}

// Subscribe implements plugin.Host.
func (h *Host) Subscribe(eventType string, handler events.Handler) events.CancelFunc {
	return h.bus.Subscribe(eventType, handler)
}

// SubscribeAll implements plugin.Host.
func (h *Host) SubscribeAll(handler events.Handler) events.CancelFunc {
	return h.bus.SubscribeAll(handler)
}

// RegisterTask implements plugin.Host.
func (h *Host) RegisterTask(name string, interval time.Duration, task func(context.Context) error) error {
	return h.scheduler.Register(name, interval, task)
}

// Config implements plugin.Host. It returns the configuration section for
// one plugin, never nil.
func (h *Host) Config(pluginID string) map[string]any {
	if section, ok := h.cfg.Plugins.Config[pluginID]; ok {
		return section
	}
	return map[string]any{}
}

func countFailures(results []plugin.ActivationResult) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
