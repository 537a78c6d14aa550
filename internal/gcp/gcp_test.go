package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("LAWSUIT_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("LAWSUIT_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("LAWSUIT_TEST_MISSING", "fallback"))
}

func TestObjectURL_EscapesSegments(t *testing.T) {
	got := ObjectURL("lawsuits-dev", "lawsuits/co-1/ct-1/1719835200000-claims statement.html")
	assert.Equal(t, "https://storage.googleapis.com/lawsuits-dev/lawsuits/co-1/ct-1/1719835200000-claims%20statement.html", got)
}

func TestIsPreconditionFailed(t *testing.T) {
	assert.True(t, isPreconditionFailed(&googleapi.Error{Code: 412}))
	assert.True(t, isPreconditionFailed(fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 412})))
	assert.False(t, isPreconditionFailed(&googleapi.Error{Code: 503}))
	assert.False(t, isPreconditionFailed(errors.New("plain")))
	assert.False(t, isPreconditionFailed(nil))
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 4, time.Millisecond, func(context.Context) error {
			calls++
			if calls < 3 {
				return &googleapi.Error{Code: 503}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("precondition failure stops immediately", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 4, time.Millisecond, func(context.Context) error {
			calls++
			return &googleapi.Error{Code: 412}
		})
		assert.True(t, isPreconditionFailed(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after all attempts", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), 3, time.Millisecond, func(context.Context) error {
			calls++
			return errors.New("unavailable")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context ends backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := withRetry(ctx, 3, time.Hour, func(context.Context) error {
			return errors.New("unavailable")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type fakeExecutions struct {
	req *executionspb.CreateExecutionRequest
	err error
}

func (f *fakeExecutions) CreateExecution(_ context.Context, req *executionspb.CreateExecutionRequest, _ ...gax.CallOption) (*executionspb.Execution, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &executionspb.Execution{Name: "exec-1"}, nil
}

func TestWorkflowTrigger_AfterRegister(t *testing.T) {
	client := &fakeExecutions{}
	w := NewWorkflowTrigger(client, config.WorkflowConfig{ProjectID: "p", Location: "me-central1", WorkflowID: "lawsuit-followup"})
	ev := models.CaseRegisteredEvent{CaseID: "case-42", CaseNumber: "LC-1", ContractID: "ct-1", CompanyID: "co-1"}

	require.NoError(t, w.AfterRegister(context.Background(), ev))
	require.NotNil(t, client.req)
	assert.Equal(t, "projects/p/locations/me-central1/workflows/lawsuit-followup", client.req.Parent)

	var got models.CaseRegisteredEvent
	require.NoError(t, json.Unmarshal([]byte(client.req.Execution.Argument), &got))
	assert.Equal(t, ev, got)
	assert.Equal(t, "workflow", w.Name())
}

func TestWorkflowTrigger_Error(t *testing.T) {
	w := NewWorkflowTrigger(&fakeExecutions{err: errors.New("permission denied")}, config.WorkflowConfig{})
	err := w.AfterRegister(context.Background(), models.CaseRegisteredEvent{})
	assert.ErrorContains(t, err, "failed to trigger workflow execution")
}
