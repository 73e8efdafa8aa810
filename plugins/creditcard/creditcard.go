// Package creditcard is the credit card product plugin.
package creditcard

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/events"
	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/plugin"
)

const pluginID = "creditcard"

// Descriptor returns the registrable plugin descriptor.
func Descriptor() *plugin.Descriptor {
	return &plugin.Descriptor{
		ID:         pluginID,
		Categories: []string{plugin.CategoryCreditCard},
		Display: plugin.Display{
			Name:        "Credit Card",
			Description: "Card balance, payments and statements",
			Icon:        "credit-card",
			Color:       "#1f6feb",
		},
		Capabilities: []string{"payments", "statements", "autopay"},
		Components: map[string]string{
			"card":   "CreditCardSummary",
			"detail": "CreditCardDetail",
		},
		Routes: []plugin.Route{
			{Path: "/cards", Title: "My Cards", Component: "CreditCardDetail"},
			{Path: "/cards/payments", Title: "Card Payments", Component: "CardPaymentForm"},
		},
		OnActivate: activate,
	}
}

func activate(ctx context.Context, host plugin.Host) error {
	logger := host.Logger()

	host.Subscribe(events.EventPaymentSubmitted, func(ev events.Event) {
		payment, ok := ev.Payload.(events.PaymentSubmitted)
		if !ok {
			return
		}
		logger.WithFields(logrus.Fields{
			"plugin":  pluginID,
			"account": payment.AccountID,
			"amount":  payment.Amount,
		}).Info("Card payment submitted")
	})

	host.Subscribe(events.EventInsightGenerated, func(ev events.Event) {
		insight, ok := ev.Payload.(events.InsightGenerated)
		if !ok || insight.Category != plugin.CategoryCreditCard {
			return
		}
		logger.WithFields(logrus.Fields{
			"plugin": pluginID,
			"title":  insight.Title,
		}).Debug("Card insight received")
	})

	interval := 6 * time.Hour
	if v, ok := host.Config(pluginID)["autopayCheckInterval"].(string); ok {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}
	return host.RegisterTask("creditcard-autopay-check", interval, func(ctx context.Context) error {
		logger.WithField("plugin", pluginID).Debug("Autopay schedule check")
		return nil
	})
}
