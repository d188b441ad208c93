package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "configured endpoint",
			cfg:     Config{ServiceName: "suggest-api", Endpoint: "localhost:4318"},
			wantErr: false,
		},
		{
			name:    "empty endpoint disables tracing",
			cfg:     Config{ServiceName: "suggest-api"},
			wantErr: false,
		},
		{
			name:    "partial sample ratio",
			cfg:     Config{ServiceName: "suggest-api", Endpoint: "localhost:4318", SampleRatio: 0.25},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			shutdown, err := Setup(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Setup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if shutdown == nil {
				t.Fatal("Setup() returned nil shutdown")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := shutdown(shutdownCtx); err != nil {
				t.Errorf("shutdown error = %v", err)
			}
		})
	}
}

func TestSampler(t *testing.T) {
	always := sdktrace.AlwaysSample().Description()

	tests := []struct {
		ratio      float64
		wantAlways bool
	}{
		{ratio: 0, wantAlways: true},
		{ratio: 1, wantAlways: true},
		{ratio: 1.5, wantAlways: true},
		{ratio: 0.5, wantAlways: false},
	}

	for _, tt := range tests {
		got := sampler(tt.ratio).Description()
		if (got == always) != tt.wantAlways {
			t.Errorf("sampler(%v) = %q, wantAlways=%v", tt.ratio, got, tt.wantAlways)
		}
	}
}

// TestTraceContextPropagation verifies that an upstream traceparent header is
// honored by the instrumented router.
func TestTraceContextPropagation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("suggest-api"))
	r.HandleFunc("/api/v1/ai/usage", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		traceParent string
	}{
		{name: "without upstream trace"},
		{name: "with upstream trace", traceParent: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter.Reset()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ai/usage", nil)
			if tt.traceParent != "" {
				req.Header.Set("traceparent", tt.traceParent)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if err := tp.ForceFlush(context.Background()); err != nil {
				t.Fatalf("failed to flush tracer provider: %v", err)
			}

			spans := exporter.GetSpans()
			if len(spans) == 0 {
				t.Fatal("expected at least one span")
			}
			if !spans[0].SpanContext.TraceID().IsValid() {
				t.Error("expected valid trace ID")
			}
			if tt.traceParent != "" && spans[0].SpanContext.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
				t.Errorf("expected upstream trace ID to be continued, got %s", spans[0].SpanContext.TraceID())
			}
		})
	}
}
