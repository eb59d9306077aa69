package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/novamind-digital/immo/internal/domains/handover/adapters/memory"
	"github.com/novamind-digital/immo/internal/domains/handover/application"
	"github.com/novamind-digital/immo/internal/domains/handover/ports"
)

func newInstrumented(t *testing.T) (ports.Service, *sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = meterProvider.Shutdown(context.Background())
		_ = tracerProvider.Shutdown(context.Background())
	})

	inner := application.NewService(memory.NewRepository(), memory.NewSnapshotCache())
	svc := New(inner,
		WithTracer(tracerProvider.Tracer("test")),
		WithMeter(meterProvider.Meter("test")),
	)
	return svc, reader, recorder
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_RecordsSessionAndSaveMetrics(t *testing.T) {
	ctx := context.Background()
	svc, reader, _ := newInstrumented(t)

	info, err := svc.OpenSession(ctx, "owner-1")
	require.NoError(t, err)
	saved, err := svc.SaveSession(ctx, info.ID)
	require.NoError(t, err)
	require.NotEmpty(t, saved.HandoverID)
	_, err = svc.CompleteHandover(ctx, saved.HandoverID)
	require.NoError(t, err)
	require.NoError(t, svc.CloseSession(ctx, info.ID))

	require.Equal(t, int64(2), counterTotal(t, reader, "handover.service.sessions"))
	require.Equal(t, int64(1), counterTotal(t, reader, "handover.service.saves"))
	require.Equal(t, int64(1), counterTotal(t, reader, "handover.service.transitions"))
}

func TestService_MarksSpanOnError(t *testing.T) {
	svc, _, recorder := newInstrumented(t)

	_, err := svc.DescribeSession(context.Background(), "missing")
	require.ErrorIs(t, err, application.ErrSessionNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "HandoverService.DescribeSession", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
