// Package workflows holds the Temporal client used for durable background
// work such as replaying failed stock restores.
package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/logger"
)

// TemporalClient is a connected client bound to one namespace and task queue.
type TemporalClient struct {
	Client    client.Client
	TaskQueue string

	tracing interceptor.Interceptor
	log     logger.Logger
}

// NewTemporalClient dials cfg.TemporalHostPort. Workflow starts and worker
// executions are traced through OpenTelemetry.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("temporal"),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
	}

	log = log.With("component", "temporal")
	c, err := client.DialContext(ctx, client.Options{
		HostPort:     cfg.TemporalHostPort,
		Namespace:    cfg.TemporalNamespace,
		Logger:       temporallog.NewStructuredLogger(log.ToSlog()),
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", cfg.TemporalHostPort, err)
	}
	log.InfoContext(ctx, "temporal client connected", "host_port", cfg.TemporalHostPort, "namespace", cfg.TemporalNamespace)

	return &TemporalClient{Client: c, TaskQueue: cfg.TemporalTaskQueue, tracing: tracing, log: log}, nil
}

// Start runs workflow under workflowID on the task queue. The id is a
// deduplication key: starting an id that is already running is a no-op.
func (tc *TemporalClient) Start(ctx context.Context, workflowID string, workflow any, args ...any) error {
	run, err := tc.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                tc.TaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflow, args...)
	var started *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case errors.As(err, &started):
		tc.log.DebugContext(ctx, "workflow already running", "workflow_id", workflowID)
		return nil
	case err != nil:
		return fmt.Errorf("start workflow %s: %w", workflowID, err)
	}
	tc.log.InfoContext(ctx, "workflow started", "workflow_id", run.GetID(), "run_id", run.GetRunID())
	return nil
}

// NewWorker returns a worker on the client's task queue with tracing enabled.
func (tc *TemporalClient) NewWorker() worker.Worker {
	return worker.New(tc.Client, tc.TaskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{tc.tracing},
	})
}

// Close releases the connection.
func (tc *TemporalClient) Close() {
	tc.Client.Close()
}
