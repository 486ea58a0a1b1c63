package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []DeploymentStatus{
	StatusQueued,
	StatusBuilding,
	StatusReady,
	StatusError,
	StatusCanceled,
	StatusSkipped,
}

func TestDeploymentStatus_TerminalActivePartition(t *testing.T) {
	t.Parallel()

	// Every status is exactly one of terminal or active.
	for _, status := range allStatuses {
		assert.NotEqual(t, status.IsTerminal(), status.IsActive(),
			"status %q must be exactly one of terminal or active", status)
	}
}

func TestDeploymentStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   DeploymentStatus
		terminal bool
	}{
		{StatusQueued, false},
		{StatusBuilding, false},
		{StatusReady, true},
		{StatusError, true},
		{StatusCanceled, true},
		{StatusSkipped, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.IsTerminal(), "status %q", tt.status)
	}
}

func TestDeploymentStatus_DisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Failed", StatusError.DisplayName())
	assert.Equal(t, "Ready", StatusReady.DisplayName())
	assert.Equal(t, "Skipped", StatusSkipped.DisplayName())
}

func TestService_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, ServiceVercel.Valid())
	assert.True(t, ServiceNetlify.Valid())
	assert.False(t, Service("heroku").Valid())
}
