package engine

import (
	"sort"
	"time"

	"github.com/deploywatch/deploywatch/internal/domain"
)

// Accounts returns a copy of the registered accounts.
func (e *Engine) Accounts() []domain.Account {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Account, len(e.accounts))
	copy(out, e.accounts)
	return out
}

// Projects returns a copy of every tracked project, ordered by most
// recent deployment.
func (e *Engine) Projects() []domain.Project {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Project, len(e.projects))
	copy(out, e.projects)
	return out
}

// ProjectsByService returns the tracked projects for one provider.
func (e *Engine) ProjectsByService(service domain.Service) []domain.Project {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []domain.Project
	for _, project := range e.projects {
		if project.Service == service {
			out = append(out, project)
		}
	}
	return out
}

// ActiveProjects returns projects whose latest deployment is in
// progress or finished within the trailing activity window. In-progress
// projects sort first, then by descending deployment time.
func (e *Engine) ActiveProjects() []domain.Project {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cutoff := time.Now().Add(-activeWindow)
	var out []domain.Project
	for _, project := range e.projects {
		deployment, ok := project.LatestDeployment()
		if !ok {
			continue
		}
		if deployment.Status.IsActive() || deployment.CreatedAt.After(cutoff) {
			out = append(out, project)
		}
	}

	// The snapshot is already in recency order; the stable sort only
	// lifts the in-progress projects to the front.
	sort.SliceStable(out, func(a, b int) bool {
		return rankActive(out[a]) && !rankActive(out[b])
	})
	return out
}

func rankActive(project domain.Project) bool {
	status, ok := project.LatestStatus()
	return ok && status.IsActive()
}

// OverallStatus aggregates the active projects into a single state for
// compact display.
func (e *Engine) OverallStatus() domain.OverallStatus {
	e.mu.RLock()
	hasAccounts := len(e.accounts) > 0
	e.mu.RUnlock()
	if !hasAccounts {
		return domain.OverallIdle
	}

	active := e.ActiveProjects()
	if len(active) == 0 {
		return domain.OverallIdle
	}

	building := false
	for _, project := range active {
		status, ok := project.LatestStatus()
		if !ok {
			continue
		}
		switch {
		case status == domain.StatusError:
			return domain.OverallError
		case status.IsActive():
			building = true
		}
	}
	if building {
		return domain.OverallBuilding
	}
	return domain.OverallReady
}

// HasActiveBuilds reports whether any tracked project has a deployment
// in progress.
func (e *Engine) HasActiveBuilds() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, project := range e.projects {
		status, ok := project.LatestStatus()
		if ok && status.IsActive() {
			return true
		}
	}
	return false
}

// LastRefreshedAt reports when the last full refresh completed, or nil
// before the first one.
func (e *Engine) LastRefreshedAt() *time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastRefreshedAt
}

// LastError reports the most recent refresh error, or nil.
func (e *Engine) LastError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// Loading reports whether a full refresh is in flight.
func (e *Engine) Loading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}
