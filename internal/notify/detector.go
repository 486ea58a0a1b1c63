package notify

import (
	"github.com/deploywatch/deploywatch/internal/domain"
)

// Detector diffs latest-status snapshots across poll cycles. It is not
// safe for concurrent use; the scheduler is its only caller.
type Detector struct {
	previous map[string]domain.DeploymentStatus
}

// NewDetector creates a detector with no prior snapshot.
func NewDetector() *Detector {
	return &Detector{previous: make(map[string]domain.DeploymentStatus)}
}

// Prime records the current statuses without emitting events, so that
// the first real observation after startup only reports changes.
func (d *Detector) Prime(projects []domain.Project) {
	d.previous = snapshot(projects)
}

// Observe compares the given projects against the previous cycle and
// returns the transition events, plus whether any transition occurred
// (including ones that emit no event, such as reaching Canceled).
func (d *Detector) Observe(projects []domain.Project) ([]Event, bool) {
	changed := false
	var events []Event

	for _, project := range projects {
		currentStatus, ok := project.LatestStatus()
		if !ok {
			continue
		}

		previousStatus, seen := d.previous[project.ID]
		if seen && previousStatus == currentStatus {
			continue
		}
		changed = true

		event, ok := transitionEvent(project, previousStatus, currentStatus, seen)
		if ok {
			events = append(events, event)
		}
	}

	d.previous = snapshot(projects)
	return events, changed
}

// transitionEvent applies the notification rules for one project.
func transitionEvent(
	project domain.Project,
	previous, current domain.DeploymentStatus,
	seen bool,
) (Event, bool) {
	deployment, _ := project.LatestDeployment()

	if !seen {
		// A project discovered already in a terminal state would produce
		// a spurious notification; only announce it if it is building.
		if current == domain.StatusBuilding {
			return Event{Type: EventBuildStarted, Project: project, Deployment: deployment}, true
		}
		return Event{}, false
	}

	switch current {
	case domain.StatusBuilding:
		if previous == domain.StatusQueued {
			return Event{Type: EventBuildStarted, Project: project, Deployment: deployment}, true
		}
	case domain.StatusReady:
		return Event{Type: EventBuildSucceeded, Project: project, Deployment: deployment}, true
	case domain.StatusError:
		return Event{Type: EventBuildFailed, Project: project, Deployment: deployment}, true
	case domain.StatusQueued, domain.StatusCanceled, domain.StatusSkipped:
		// Transitions into these states are tracked but not announced.
	}
	return Event{}, false
}

func snapshot(projects []domain.Project) map[string]domain.DeploymentStatus {
	statuses := make(map[string]domain.DeploymentStatus, len(projects))
	for _, project := range projects {
		if status, ok := project.LatestStatus(); ok {
			statuses[project.ID] = status
		}
	}
	return statuses
}
