package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploywatch/deploywatch/internal/domain"
)

func projectWithStatus(id string, status domain.DeploymentStatus) domain.Project {
	return domain.Project{
		ID:   id,
		Name: id,
		Deployments: []domain.Deployment{
			{ID: id + "-deploy", ProjectID: id, Status: status, CreatedAt: time.Now()},
		},
	}
}

func TestDetector_BuildingToReadyEmitsOneSuccess(t *testing.T) {
	t.Parallel()

	detector := NewDetector()
	detector.Prime([]domain.Project{projectWithStatus("web", domain.StatusBuilding)})

	events, changed := detector.Observe([]domain.Project{projectWithStatus("web", domain.StatusReady)})
	assert.True(t, changed)
	require.Len(t, events, 1)
	assert.Equal(t, EventBuildSucceeded, events[0].Type)
	assert.Equal(t, "web", events[0].Project.ID)

	// Ready -> Ready on a subsequent cycle is silent.
	events, changed = detector.Observe([]domain.Project{projectWithStatus("web", domain.StatusReady)})
	assert.False(t, changed)
	assert.Empty(t, events)
}

func TestDetector_QueuedToBuildingEmitsStarted(t *testing.T) {
	t.Parallel()

	detector := NewDetector()
	detector.Prime([]domain.Project{projectWithStatus("web", domain.StatusQueued)})

	events, changed := detector.Observe([]domain.Project{projectWithStatus("web", domain.StatusBuilding)})
	assert.True(t, changed)
	require.Len(t, events, 1)
	assert.Equal(t, EventBuildStarted, events[0].Type)
}

func TestDetector_BuildingToErrorEmitsFailure(t *testing.T) {
	t.Parallel()

	detector := NewDetector()
	detector.Prime([]domain.Project{projectWithStatus("web", domain.StatusBuilding)})

	events, _ := detector.Observe([]domain.Project{projectWithStatus("web", domain.StatusError)})
	require.Len(t, events, 1)
	assert.Equal(t, EventBuildFailed, events[0].Type)
}

func TestDetector_FirstSeenProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     domain.DeploymentStatus
		wantEvents int
	}{
		{name: "building announces a started build", status: domain.StatusBuilding, wantEvents: 1},
		{name: "ready stays silent", status: domain.StatusReady, wantEvents: 0},
		{name: "error stays silent", status: domain.StatusError, wantEvents: 0},
		{name: "queued stays silent", status: domain.StatusQueued, wantEvents: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			detector := NewDetector()
			events, changed := detector.Observe([]domain.Project{projectWithStatus("web", tt.status)})
			assert.True(t, changed, "a first sighting counts as a transition")
			assert.Len(t, events, tt.wantEvents)
		})
	}
}

func TestDetector_SilentTransitionsStillCountAsChanges(t *testing.T) {
	t.Parallel()

	detector := NewDetector()
	detector.Prime([]domain.Project{projectWithStatus("web", domain.StatusBuilding)})

	// Building -> Canceled emits nothing but must reset the recent-change
	// clock.
	events, changed := detector.Observe([]domain.Project{projectWithStatus("web", domain.StatusCanceled)})
	assert.True(t, changed)
	assert.Empty(t, events)
}

func TestDetector_ProjectWithoutDeploymentsIsIgnored(t *testing.T) {
	t.Parallel()

	detector := NewDetector()
	events, changed := detector.Observe([]domain.Project{{ID: "empty", Name: "empty"}})
	assert.False(t, changed)
	assert.Empty(t, events)
}

type recordingDispatcher struct {
	delivered []Event
}

func (r *recordingDispatcher) Deliver(event Event) {
	r.delivered = append(r.delivered, event)
}

func TestFilteredDispatcher(t *testing.T) {
	t.Parallel()

	started := Event{Type: EventBuildStarted}
	succeeded := Event{Type: EventBuildSucceeded}
	failed := Event{Type: EventBuildFailed}

	tests := []struct {
		name      string
		prefs     Preferences
		wantTypes []EventType
	}{
		{
			name:      "all enabled",
			prefs:     Preferences{Enabled: true, OnBuildStart: true, OnBuildSuccess: true, OnBuildFailure: true},
			wantTypes: []EventType{EventBuildStarted, EventBuildSucceeded, EventBuildFailed},
		},
		{
			name:      "master switch off drops everything",
			prefs:     Preferences{Enabled: false, OnBuildStart: true, OnBuildSuccess: true, OnBuildFailure: true},
			wantTypes: nil,
		},
		{
			name:      "failures only",
			prefs:     Preferences{Enabled: true, OnBuildFailure: true},
			wantTypes: []EventType{EventBuildFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recorder := &recordingDispatcher{}
			dispatcher := NewFilteredDispatcher(recorder, tt.prefs)

			for _, event := range []Event{started, succeeded, failed} {
				dispatcher.Deliver(event)
			}

			var gotTypes []EventType
			for _, event := range recorder.delivered {
				gotTypes = append(gotTypes, event.Type)
			}
			assert.Equal(t, tt.wantTypes, gotTypes)
		})
	}
}

func TestEvent_Rendering(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ready := created.Add(95 * time.Second)

	succeeded := Event{
		Type:       EventBuildSucceeded,
		Project:    domain.Project{Name: "marketing-site"},
		Deployment: domain.Deployment{CreatedAt: created, ReadyAt: &ready},
	}
	assert.Equal(t, "Deploy Succeeded", succeeded.Title())
	assert.Equal(t, "marketing-site (1m 35s)", succeeded.Body())

	failed := Event{
		Type:       EventBuildFailed,
		Project:    domain.Project{Name: "marketing-site"},
		Deployment: domain.Deployment{ErrorMessage: "Module not found"},
	}
	assert.Equal(t, "marketing-site\nModule not found", failed.Body())

	started := Event{
		Type:       EventBuildStarted,
		Project:    domain.Project{Name: "marketing-site"},
		Deployment: domain.Deployment{Branch: "main", AdminURL: "https://vercel.com/~/marketing-site/dpl_1"},
	}
	assert.Equal(t, "marketing-site (main)", started.Body())
	assert.Equal(t, "https://vercel.com/~/marketing-site/dpl_1", started.TargetURL())
}
