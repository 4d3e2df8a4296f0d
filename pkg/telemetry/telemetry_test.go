package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/flowforge/engine/pkg/types"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "custom config",
			config: Config{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				EnableTracing:  true,
				EnableMetrics:  true,
			},
			wantErr: false,
		},
		{
			name: "metrics only",
			config: Config{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				EnableTracing:  false,
				EnableMetrics:  true,
			},
			wantErr: false,
		},
		{
			name: "tracing only",
			config: Config{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Environment:    "test",
				EnableTracing:  true,
				EnableMetrics:  false,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(ctx, tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err == nil {
				if provider == nil {
					t.Error("NewProvider() returned nil provider")
					return
				}

				if tt.config.EnableTracing && provider.Tracer() == nil {
					t.Error("Tracer() returned nil when tracing is enabled")
				}

				if tt.config.EnableMetrics && provider.Meter() == nil {
					t.Error("Meter() returned nil when metrics are enabled")
				}

				if err := provider.Shutdown(ctx); err != nil {
					t.Errorf("Shutdown() error = %v", err)
				}
			}
		})
	}
}

func TestRecordWorkflowRun(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name          string
		status        types.Status
		duration      time.Duration
		nodesExecuted int
	}{
		{name: "successful run", status: types.StatusSuccess, duration: 100 * time.Millisecond, nodesExecuted: 5},
		{name: "failed run", status: types.StatusError, duration: 50 * time.Millisecond, nodesExecuted: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordWorkflowRun(ctx, tt.status, tt.duration, tt.nodesExecuted)
		})
	}
}

func TestRecordNodeExecution(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name     string
		nodeType types.NodeType
		status   types.Status
		duration time.Duration
	}{
		{name: "successful python node", nodeType: types.NodeTypePython, status: types.StatusSuccess, duration: 10 * time.Millisecond},
		{name: "failed condition node", nodeType: types.NodeTypeCondition, status: types.StatusError, duration: 5 * time.Millisecond},
		{name: "successful http node", nodeType: types.NodeTypeHTTP, status: types.StatusSuccess, duration: 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordNodeExecution(ctx, tt.nodeType, tt.status, tt.duration)
		})
	}
}

func TestRecordForeachIteration(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	provider.RecordForeachIteration(ctx, "loop-1", types.StatusSuccess)
	provider.RecordForeachIteration(ctx, "loop-1", types.StatusError)
}

func TestRecordHTTPCall(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name       string
		method     string
		host       string
		statusCode int
		duration   time.Duration
	}{
		{name: "successful GET", method: "GET", host: "api.example.com", statusCode: 200, duration: 150 * time.Millisecond},
		{name: "failed POST", method: "POST", host: "api.example.com", statusCode: 500, duration: 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordHTTPCall(ctx, tt.method, tt.host, tt.statusCode, tt.duration)
		})
	}
}

func TestShutdown(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	// A second shutdown should not panic even if the underlying SDK errors.
	_ = provider.Shutdown(ctx)
}

func TestProviderWithNilMetrics(t *testing.T) {
	ctx := context.Background()

	config := Config{
		ServiceName:    "test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		EnableTracing:  true,
		EnableMetrics:  false,
	}

	provider, err := NewProvider(ctx, config)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	provider.RecordWorkflowRun(ctx, types.StatusSuccess, time.Second, 1)
	provider.RecordNodeExecution(ctx, types.NodeTypePython, types.StatusSuccess, time.Millisecond)
	provider.RecordForeachIteration(ctx, "loop", types.StatusSuccess)
	provider.RecordHTTPCall(ctx, "GET", "example.com", 200, time.Second)
}
