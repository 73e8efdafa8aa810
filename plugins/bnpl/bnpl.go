// Package bnpl is the buy-now-pay-later product plugin.
package bnpl

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/events"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/plugin"
)

const pluginID = "bnpl"

// Descriptor returns the registrable plugin descriptor.
func Descriptor() *plugin.Descriptor {
	return &plugin.Descriptor{
		ID:         pluginID,
		Categories: []string{plugin.CategoryBNPL},
		Display: plugin.Display{
			Name:        "Pay Later",
			Description: "Installment plans and upcoming payments",
			Icon:        "calendar",
			Color:       "#8957e5",
		},
		Capabilities: []string{"installments"},
		Components: map[string]string{
			"card": "BNPLSummary",
		},
		Routes: []plugin.Route{
			{Path: "/paylater", Title: "Pay Later", Component: "BNPLPlans"},
		},
		OnActivate: activate,
	}
}

func activate(ctx context.Context, host plugin.Host) error {
	logger := host.Logger()

	host.Subscribe(events.EventPaymentCompleted, func(ev events.Event) {
		payment, ok := ev.Payload.(events.PaymentCompleted)
		if !ok {
			return
		}
		logger.WithFields(logrus.Fields{
			"plugin":       pluginID,
			"account":      payment.AccountID,
			"confirmation": payment.ConfirmationID,
		}).Info("Installment payment completed")
	})

	return nil
}
