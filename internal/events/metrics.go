package events

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "finitefield.org/storefront-web/internal/events"

// Instrument counts every publish of names on the storefront.collection.updates counter,
// tagged with the event name. A nil meter uses the global provider. The returned
// function removes the subscriptions.
func Instrument(b *Bus, meter metric.Meter, names ...Name) (func(), error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	counter, err := meter.Int64Counter(
		"storefront.collection.updates",
		metric.WithDescription("Count of cart and wishlist changes"),
	)
	if err != nil {
		return func() {}, fmt.Errorf("events: register update counter: %w", err)
	}
	unsubs := make([]func(), 0, len(names))
	for _, name := range names {
		attrs := metric.WithAttributes(attribute.String("event", string(name)))
		unsubs = append(unsubs, b.Subscribe(name, func() {
			counter.Add(context.Background(), 1, attrs)
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}, nil
}
