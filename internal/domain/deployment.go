package domain

import (
	"fmt"
	"time"
)

// Deployment is a single deploy of a project, normalized from a provider
// payload.
type Deployment struct {
	ID        string
	ProjectID string
	Service   Service
	Status    DeploymentStatus

	// URL is the live deployment URL, when the provider exposes one.
	URL string

	// AdminURL is the provider dashboard page for this deployment.
	AdminURL string

	CreatedAt time.Time

	// ReadyAt is set only when Status is StatusReady.
	ReadyAt *time.Time

	Branch        string
	CommitMessage string
	CommitSHA     string
	ErrorMessage  string
}

// BuildDuration returns the time from creation to readiness. The second
// return value is false when the deployment never became ready.
func (d Deployment) BuildDuration() (time.Duration, bool) {
	if d.ReadyAt == nil {
		return 0, false
	}
	return d.ReadyAt.Sub(d.CreatedAt), true
}

// FormattedBuildDuration renders the build duration as "2m 30s" or "45s".
// It returns an empty string when the duration is unknown.
func (d Deployment) FormattedBuildDuration() string {
	duration, ok := d.BuildDuration()
	if !ok {
		return ""
	}
	minutes := int(duration.Seconds()) / 60
	seconds := int(duration.Seconds()) % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// ShortCommitSHA returns the first 7 characters of the commit SHA, or an
// empty string when no commit is recorded.
func (d Deployment) ShortCommitSHA() string {
	if len(d.CommitSHA) <= 7 {
		return d.CommitSHA
	}
	return d.CommitSHA[:7]
}
