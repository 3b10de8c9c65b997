package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracerNoneExporter(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{ServiceName: "carwash-api", Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracerRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracer(context.Background(), TracingConfig{ServiceName: "carwash-api", Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported tracing exporter: zipkin")
}

func TestResourceAttributesCarryShop(t *testing.T) {
	attrs := resourceAttributes(TracingConfig{
		ServiceName: "carwash-api",
		Environment: "production",
		Shop: map[string]string{
			"shop.timezone": "Asia/Kolkata",
			"shop.name":     "Carsss",
			"shop.currency": "INR",
			"shop.branch":   " ",
		},
	})
	require.Equal(t, []attribute.KeyValue{
		attribute.String("service.name", "carwash-api"),
		attribute.String("deployment.environment", "production"),
		attribute.String("shop.currency", "INR"),
		attribute.String("shop.name", "Carsss"),
		attribute.String("shop.timezone", "Asia/Kolkata"),
	}, attrs)
}

func TestSamplingRatio(t *testing.T) {
	require.Equal(t, 1.0, samplingRatio(0))
	require.Equal(t, 1.0, samplingRatio(3))
	require.Equal(t, 0.25, samplingRatio(0.25))
}
