// Package rewards is the rewards product plugin. It declares no activation
// hook; registration alone makes it available for category resolution.
package rewards

import (
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/plugin"
)

// Descriptor returns the registrable plugin descriptor.
func Descriptor() *plugin.Descriptor {
	return &plugin.Descriptor{
		ID:         "rewards",
		Categories: []string{plugin.CategoryRewards},
		Display: plugin.Display{
			Name:        "Rewards",
			Description: "Points balance and redemption offers",
			Icon:        "gift",
			Color:       "#d29922",
		},
		Capabilities: []string{"points", "redemption"},
		Components: map[string]string{
			"card": "RewardsSummary",
		},
		Routes: []plugin.Route{
			{Path: "/rewards", Title: "Rewards", Component: "RewardsCatalog"},
		},
	}
}
