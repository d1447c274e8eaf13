package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

type fakeRestorer struct {
	calls   int
	failFor int
	got     uuid.UUID
}

func (f *fakeRestorer) ApplyAttempt(_ context.Context, attemptID uuid.UUID) (int, error) {
	f.calls++
	f.got = attemptID
	if f.calls <= f.failFor {
		return 0, errors.New("database unavailable")
	}
	return 2, nil
}

func TestStockRestoreWorkflow_RetriesUntilApplied(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	restorer := &fakeRestorer{failFor: 2}
	env.RegisterActivity(&RestoreActivities{Restorer: restorer})

	attemptID := uuid.New()
	env.ExecuteWorkflow(StockRestoreWorkflow, attemptID.String())

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var restored int
	require.NoError(t, env.GetWorkflowResult(&restored))
	assert.Equal(t, 2, restored)
	assert.Equal(t, 3, restorer.calls)
	assert.Equal(t, attemptID, restorer.got)
}

func TestRestoreAttempt_InvalidID(t *testing.T) {
	a := &RestoreActivities{Restorer: &fakeRestorer{}}
	_, err := a.RestoreAttempt(context.Background(), "not-a-uuid")
	require.Error(t, err)
}
