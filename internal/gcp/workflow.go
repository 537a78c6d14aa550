package gcp

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// ExecutionsClient is the subset of *executions.Client the trigger uses.
type ExecutionsClient interface {
	CreateExecution(ctx context.Context, req *executionspb.CreateExecutionRequest, opts ...gax.CallOption) (*executionspb.Execution, error)
}

// WorkflowTrigger starts a Cloud Workflows execution for every registered case.
type WorkflowTrigger struct {
	client ExecutionsClient
	cfg    config.WorkflowConfig
}

func NewWorkflowTrigger(client ExecutionsClient, cfg config.WorkflowConfig) *WorkflowTrigger {
	return &WorkflowTrigger{client: client, cfg: cfg}
}

func (w *WorkflowTrigger) Name() string { return "workflow" }

// Parent is the fully qualified workflow name.
func (w *WorkflowTrigger) Parent() string {
	return fmt.Sprintf("projects/%s/locations/%s/workflows/%s", w.cfg.ProjectID, w.cfg.Location, w.cfg.WorkflowID)
}

func (w *WorkflowTrigger) AfterRegister(ctx context.Context, ev models.CaseRegisteredEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow payload: %w", err)
	}
	req := &executionspb.CreateExecutionRequest{
		Parent: w.Parent(),
		Execution: &executionspb.Execution{
			Argument: string(payload),
		},
	}
	if _, err := w.client.CreateExecution(ctx, req); err != nil {
		return fmt.Errorf("failed to trigger workflow execution: %w", err)
	}
	return nil
}
