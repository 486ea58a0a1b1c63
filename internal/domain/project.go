package domain

import "github.com/google/uuid"

// Project is a provider project (a Netlify "site" or Vercel project).
// Project ids are only unique within a provider and account.
type Project struct {
	ID        string
	AccountID uuid.UUID
	Service   Service
	Name      string

	// URL is the public site URL, when known.
	URL string

	// AdminURL is the provider dashboard page for the project.
	AdminURL string

	// Framework is the provider-reported framework label, when known.
	Framework string

	// Deployments is ordered newest first and bounded to the recent
	// fetch window.
	Deployments []Deployment
}

// LatestDeployment returns the most recent deployment. The second return
// value is false when the project has none.
func (p Project) LatestDeployment() (Deployment, bool) {
	if len(p.Deployments) == 0 {
		return Deployment{}, false
	}
	return p.Deployments[0], true
}

// LatestStatus returns the status of the most recent deployment. The
// second return value is false when the project has none.
func (p Project) LatestStatus() (DeploymentStatus, bool) {
	deployment, ok := p.LatestDeployment()
	if !ok {
		return "", false
	}
	return deployment.Status, true
}
