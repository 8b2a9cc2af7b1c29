package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics exported in Prometheus format
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
	collector     Collector

	meter            metric.Meter
	receivedCounter  metric.Int64Counter
	storedGauge      metric.Int64ObservableGauge
	statusCountGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates the exporter. Each exporter owns its Prometheus registry.
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"notification-inbox",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.receivedCounter, err = oe.meter.Int64Counter(
		"notification.received",
		metric.WithDescription("Notifications received per gateway and outcome"),
		metric.WithUnit("{notifications}"),
	)
	if err != nil {
		return fmt.Errorf("creating received counter: %w", err)
	}

	if oe.collector == nil {
		return nil
	}

	oe.storedGauge, err = oe.meter.Int64ObservableGauge(
		"notification.stored",
		metric.WithDescription("Notifications accepted into the inbox per gateway"),
		metric.WithUnit("{notifications}"),
		metric.WithInt64Callback(oe.observeStored),
	)
	if err != nil {
		return fmt.Errorf("creating stored gauge: %w", err)
	}

	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"notification.status.count",
		metric.WithDescription("Notifications accepted into the inbox per payment status"),
		metric.WithUnit("{notifications}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	return nil
}

// RecordReceived counts one Receive outcome
func (oe *OTelExporter) RecordReceived(ctx context.Context, gateway, outcome string) {
	oe.receivedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("gateway", gateway),
		attribute.String("outcome", outcome),
	))
}

func (oe *OTelExporter) observeStored(ctx context.Context, observer metric.Int64Observer) error {
	stored, err := oe.collector.GetStoredCounts(ctx)
	if err != nil {
		return err
	}

	for gateway, count := range stored {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("gateway", gateway),
		))
	}

	return nil
}

func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	statusCounts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range statusCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("status", status),
		))
	}

	return nil
}

// ServeHTTP returns the handler serving Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
