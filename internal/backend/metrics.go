package backend

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "finitefield.org/storefront-web/internal/backend"

type instruments struct {
	latency   metric.Float64Histogram
	cacheHits metric.Int64Counter
}

func newInstruments(meter metric.Meter, logger *zap.Logger) instruments {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	var inst instruments
	latency, err := meter.Float64Histogram(
		"storefront.upstream.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds for storefront API requests"),
	)
	if err != nil {
		logger.Warn("backend: unable to register latency metric", zap.Error(err))
	} else {
		inst.latency = latency
	}
	hits, err := meter.Int64Counter(
		"storefront.upstream.cache_hits",
		metric.WithDescription("Count of storefront API reads served from the response cache"),
	)
	if err != nil {
		logger.Warn("backend: unable to register cache hit metric", zap.Error(err))
	} else {
		inst.cacheHits = hits
	}
	return inst
}

func (i instruments) recordLatency(ctx context.Context, endpoint, outcome string, d time.Duration) {
	if i.latency == nil {
		return
	}
	i.latency.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	))
}

func (i instruments) recordCacheHit(ctx context.Context, endpoint string) {
	if i.cacheHits == nil {
		return
	}
	i.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}
