// Package plugin provides the registry and descriptor contract for Nexus
// product plugins
package plugin

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/events"
)

// Product categories served by plugins. A category resolves to at most one
// owning plugin in the registry.
const (
	CategoryCreditCard = "credit_card"
	CategoryBNPL       = "bnpl"
	CategorySavings    = "savings"
	CategoryRewards    = "rewards"
)

// Display holds presentation metadata for the host UI. Opaque to the
// registry.
type Display struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// Route describes a navigable path a plugin contributes. The registry only
// aggregates routes; it never interprets them.
type Route struct {
	Path      string `json:"path"`
	Title     string `json:"title"`
	Component string `json:"component"`
}

// ActivateFunc is the optional one-time activation hook a plugin runs after
// registration. It receives the host surface for subscriptions, publishing
// and task registration.
type ActivateFunc func(ctx context.Context, host Host) error

// Descriptor is the contract a module exports to be registrable. ID is the
// primary key and immutable after registration. Components and Routes are
// opaque pass-through for the host UI.
type Descriptor struct {
	ID           string            `json:"id"`
	Categories   []string          `json:"categories"`
	Display      Display           `json:"display"`
	Capabilities []string          `json:"capabilities"`
	Components   map[string]string `json:"components"`
	Routes       []Route           `json:"routes"`
	OnActivate   ActivateFunc      `json:"-"`
}

// Host provides application services to plugins during and after
// activation. The concrete implementation lives in pkg/host.
type Host interface {
	// Access logger
	Logger() *logrus.Logger

	// Publish an event to the application bus
	Publish(event events.Event)

	// Subscribe to one event type
	Subscribe(eventType string, handler events.Handler) events.CancelFunc

	// Subscribe to every event
	SubscribeAll(handler events.Handler) events.CancelFunc

	// Register a periodic background task
	RegisterTask(name string, interval time.Duration, task func(context.Context) error) error

	// Plugin-specific configuration section, keyed by plugin ID
	Config(pluginID string) map[string]any
}
