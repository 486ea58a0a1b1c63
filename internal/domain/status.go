package domain

// DeploymentStatus is the normalized state of a single deployment.
type DeploymentStatus string

const (
	// StatusQueued means the deployment is waiting for a build slot
	StatusQueued DeploymentStatus = "queued"

	// StatusBuilding means the build is in progress
	StatusBuilding DeploymentStatus = "building"

	// StatusReady means the deployment completed and is serving
	StatusReady DeploymentStatus = "ready"

	// StatusError means the build failed
	StatusError DeploymentStatus = "error"

	// StatusCanceled means the deployment was canceled before completion
	StatusCanceled DeploymentStatus = "canceled"

	// StatusSkipped means the provider produced no build, typically a
	// monorepo deploy with no changes in scope
	StatusSkipped DeploymentStatus = "skipped"
)

// IsTerminal reports whether the status is a completed state.
func (s DeploymentStatus) IsTerminal() bool {
	switch s {
	case StatusReady, StatusError, StatusCanceled, StatusSkipped:
		return true
	}
	return false
}

// IsActive reports whether the status is an in-progress state.
func (s DeploymentStatus) IsActive() bool {
	switch s {
	case StatusQueued, StatusBuilding:
		return true
	}
	return false
}

// DisplayName returns the human-readable status label.
func (s DeploymentStatus) DisplayName() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusBuilding:
		return "Building"
	case StatusReady:
		return "Ready"
	case StatusError:
		return "Failed"
	case StatusCanceled:
		return "Canceled"
	case StatusSkipped:
		return "Skipped"
	}
	return string(s)
}

// OverallStatus is the aggregate state derived from the active-project
// view. It is computed, never stored.
type OverallStatus string

const (
	// OverallIdle means there are no accounts or no recent activity
	OverallIdle OverallStatus = "idle"

	// OverallReady means all recently finished deploys succeeded
	OverallReady OverallStatus = "ready"

	// OverallBuilding means at least one deploy is in progress
	OverallBuilding OverallStatus = "building"

	// OverallError means at least one recent deploy failed
	OverallError OverallStatus = "error"
)
