package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForRatioBands(t *testing.T) {
	assert.Equal(t, CheckPass, StatusForRatio(0))
	assert.Equal(t, CheckPass, StatusForRatio(0.9))
	assert.Equal(t, CheckWarning, StatusForRatio(0.901))
	assert.Equal(t, CheckWarning, StatusForRatio(1.0))
	assert.Equal(t, CheckFail, StatusForRatio(1.001))
}

func TestRunLifecycle(t *testing.T) {
	run := NewAnalysisRun(AnalysisStatic)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunPending, run.Status)

	require.NoError(t, run.Transition(RunRunning))
	require.NoError(t, run.Transition(RunComplete))
	assert.Equal(t, RunComplete, run.Status)
}

func TestRunTransitionIsMonotonic(t *testing.T) {
	run := NewAnalysisRun(AnalysisModal)
	require.NoError(t, run.Transition(RunRunning))

	// Backwards is rejected.
	require.Error(t, run.Transition(RunPending))
	assert.Equal(t, RunRunning, run.Status)

	// Finished runs are immutable.
	require.NoError(t, run.Transition(RunFailed))
	require.Error(t, run.Transition(RunComplete))
	require.Error(t, run.Transition(RunRunning))
	assert.Equal(t, RunFailed, run.Status)
}

func TestRunIDsAreUnique(t *testing.T) {
	a := NewAnalysisRun(AnalysisStatic)
	b := NewAnalysisRun(AnalysisStatic)
	assert.NotEqual(t, a.ID, b.ID)
}
