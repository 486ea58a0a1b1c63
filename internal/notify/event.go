// Package notify turns status transitions between poll cycles into
// discrete notification events and delivers them best-effort.
package notify

import (
	"fmt"

	"github.com/deploywatch/deploywatch/internal/domain"
)

// EventType classifies a deployment notification.
type EventType string

const (
	// EventBuildStarted means a deployment began building
	EventBuildStarted EventType = "build-started"

	// EventBuildSucceeded means a deployment reached Ready
	EventBuildSucceeded EventType = "build-succeeded"

	// EventBuildFailed means a deployment failed
	EventBuildFailed EventType = "build-failed"
)

// Event is a single deployment transition, carrying the project and its
// latest deployment so the consumer can render it.
type Event struct {
	Type       EventType
	Project    domain.Project
	Deployment domain.Deployment
}

// ID uniquely identifies the event for deduplication by consumers.
func (e Event) ID() string {
	return fmt.Sprintf("%s-%s", e.Type, e.Deployment.ID)
}

// Title renders the notification headline.
func (e Event) Title() string {
	switch e.Type {
	case EventBuildStarted:
		return "Build Started"
	case EventBuildSucceeded:
		return "Deploy Succeeded"
	case EventBuildFailed:
		return "Deploy Failed"
	}
	return string(e.Type)
}

// Body renders the notification body: the project name plus the branch
// for started builds, the build duration for successes, and the error
// message for failures.
func (e Event) Body() string {
	body := e.Project.Name
	switch e.Type {
	case EventBuildStarted:
		if e.Deployment.Branch != "" {
			body += fmt.Sprintf(" (%s)", e.Deployment.Branch)
		}
	case EventBuildSucceeded:
		if duration := e.Deployment.FormattedBuildDuration(); duration != "" {
			body += fmt.Sprintf(" (%s)", duration)
		}
	case EventBuildFailed:
		if e.Deployment.ErrorMessage != "" {
			body += "\n" + e.Deployment.ErrorMessage
		}
	}
	return body
}

// TargetURL is the deep-link target: the live URL when present, the
// dashboard page otherwise.
func (e Event) TargetURL() string {
	if e.Deployment.URL != "" {
		return e.Deployment.URL
	}
	if e.Deployment.AdminURL != "" {
		return e.Deployment.AdminURL
	}
	return e.Project.Service.DashboardURL()
}
