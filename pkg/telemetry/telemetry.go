package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowforge/engine/pkg/types"
)

const (
	serviceName = "workflow-engine"

	metricWorkflowRuns      = "workflow_runs_total"
	metricWorkflowDuration  = "workflow_run_duration_seconds"
	metricNodeExecutions    = "workflow_node_executions_total"
	metricNodeDuration      = "workflow_node_duration_seconds"
	metricForeachIterations = "workflow_foreach_iterations_total"
	metricHTTPCalls         = "workflow_http_calls_total"
	metricHTTPDuration      = "workflow_http_call_duration_seconds"
)

// Provider manages OpenTelemetry setup and provides access to tracers,
// meters, and the metric instruments behind the Record* methods. Within this
// module only RecordWorkflowRun has a caller (the server, once per /run);
// RecordNodeExecution, RecordForeachIteration and RecordHTTPCall are not
// called by the engine.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	workflowRuns        metric.Int64Counter
	workflowDuration    metric.Float64Histogram
	nodeExecutions      metric.Int64Counter
	nodeDuration        metric.Float64Histogram
	foreachIterations   metric.Int64Counter
	httpCalls           metric.Int64Counter
	httpDuration        metric.Float64Histogram

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a telemetry provider with a Prometheus metrics
// exporter and initializes OpenTelemetry with the given configuration.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	if p.workflowRuns, err = p.meter.Int64Counter(
		metricWorkflowRuns,
		metric.WithDescription("Total number of workflow runs, by terminal status"),
	); err != nil {
		return err
	}

	if p.workflowDuration, err = p.meter.Float64Histogram(
		metricWorkflowDuration,
		metric.WithDescription("Workflow run duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if p.nodeExecutions, err = p.meter.Int64Counter(
		metricNodeExecutions,
		metric.WithDescription("Total number of node executions, by node type and status"),
	); err != nil {
		return err
	}

	if p.nodeDuration, err = p.meter.Float64Histogram(
		metricNodeDuration,
		metric.WithDescription("Node execution duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if p.foreachIterations, err = p.meter.Int64Counter(
		metricForeachIterations,
		metric.WithDescription("Total number of foreach body iterations executed"),
	); err != nil {
		return err
	}

	if p.httpCalls, err = p.meter.Int64Counter(
		metricHTTPCalls,
		metric.WithDescription("Total number of outbound HTTP calls made by http nodes"),
	); err != nil {
		return err
	}

	if p.httpDuration, err = p.meter.Float64Histogram(
		metricHTTPDuration,
		metric.WithDescription("Outbound HTTP call duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordWorkflowRun records a completed top-level workflow run.
func (p *Provider) RecordWorkflowRun(ctx context.Context, status types.Status, duration time.Duration, nodesExecuted int) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("status", string(status)),
		attribute.Int("nodes_executed", nodesExecuted),
	}
	p.workflowRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.workflowDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordNodeExecution records one node's execution.
func (p *Provider) RecordNodeExecution(ctx context.Context, nodeType types.NodeType, status types.Status, duration time.Duration) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("node_type", string(nodeType)),
		attribute.String("status", string(status)),
	}
	p.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.nodeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordForeachIteration records one foreach body iteration completing.
func (p *Provider) RecordForeachIteration(ctx context.Context, nodeID string, status types.Status) {
	if p.meter == nil {
		return
	}
	p.foreachIterations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node_id", nodeID),
		attribute.String("status", string(status)),
	))
}

// RecordHTTPCall records one outbound HTTP call made by an http node.
func (p *Provider) RecordHTTPCall(ctx context.Context, method, host string, statusCode int, duration time.Duration) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.Int("status_code", statusCode),
	}
	p.httpCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.httpDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}
