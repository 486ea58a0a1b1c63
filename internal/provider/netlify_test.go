package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploywatch/deploywatch/internal/domain"
)

func intPtr(v int) *int {
	return &v
}

func TestParseNetlifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		state        string
		errorMessage string
		deployTime   *int
		expected     domain.DeploymentStatus
	}{
		{name: "new maps to queued", state: "new", expected: domain.StatusQueued},
		{name: "enqueued maps to queued", state: "enqueued", expected: domain.StatusQueued},
		{name: "uploading maps to queued", state: "uploading", expected: domain.StatusQueued},
		{name: "building", state: "building", expected: domain.StatusBuilding},
		{name: "processing maps to building", state: "processing", expected: domain.StatusBuilding},
		{name: "ready", state: "ready", expected: domain.StatusReady},
		{name: "skipped", state: "skipped", expected: domain.StatusSkipped},
		{name: "canceled", state: "canceled", expected: domain.StatusCanceled},
		{name: "unknown state fails open to queued", state: "hibernating", expected: domain.StatusQueued},
		{
			name:         "error with skip keyword resolves to skipped",
			state:        "error",
			errorMessage: "Build skipped: no changes detected",
			deployTime:   intPtr(12),
			expected:     domain.StatusSkipped,
		},
		{
			name:         "error with real message stays error",
			state:        "error",
			errorMessage: "Command failed with exit code 1",
			deployTime:   intPtr(42),
			expected:     domain.StatusError,
		},
		{
			name:     "error without message and nil deploy time is skipped",
			state:    "error",
			expected: domain.StatusSkipped,
		},
		{
			name:       "error without message and zero deploy time is skipped",
			state:      "error",
			deployTime: intPtr(0),
			expected:   domain.StatusSkipped,
		},
		{
			name:       "error without message but nonzero deploy time stays error",
			state:      "error",
			deployTime: intPtr(42),
			expected:   domain.StatusError,
		},
		{name: "upper case state is normalized", state: "READY", expected: domain.StatusReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseNetlifyStatus(tt.state, tt.errorMessage, tt.deployTime)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNetlifyClient_FetchProjects(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{
			"id":"site-1",
			"name":"docs",
			"url":"http://docs.example.com",
			"ssl_url":"https://docs.example.com",
			"admin_url":"https://app.netlify.com/sites/docs"
		}]`))
	}))
	defer server.Close()

	client := &NetlifyClient{baseURL: server.URL, httpClient: server.Client()}
	projects, err := client.FetchProjects(t.Context(), "test-token", accountID)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	assert.Equal(t, "site-1", projects[0].ID)
	assert.Equal(t, domain.ServiceNetlify, projects[0].Service)
	// ssl_url wins over url.
	assert.Equal(t, "https://docs.example.com", projects[0].URL)
	assert.Equal(t, "https://app.netlify.com/sites/docs", projects[0].AdminURL)
}

func TestNetlifyClient_FetchDeployments(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/deploys", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[
			{
				"id":"deploy-1",
				"site_id":"site-1",
				"state":"ready",
				"ssl_url":"https://docs.example.com",
				"admin_url":"https://app.netlify.com/sites/docs/deploys/deploy-1",
				"created_at":"2025-06-01T12:00:00Z",
				"updated_at":"2025-06-01T12:03:00Z",
				"published_at":"2025-06-01T12:02:30Z",
				"title":"docs: update readme",
				"commit_ref":"cafebabe12345678",
				"branch":"main",
				"deploy_time":150
			},
			{
				"id":"deploy-2",
				"site_id":"site-1",
				"state":"building",
				"admin_url":"https://app.netlify.com/sites/docs/deploys/deploy-2",
				"created_at":"2025-06-01T12:10:00Z",
				"updated_at":"2025-06-01T12:10:30Z"
			}
		]`))
	}))
	defer server.Close()

	client := &NetlifyClient{baseURL: server.URL, httpClient: server.Client()}
	deployments, err := client.FetchDeployments(t.Context(), "test-token", "site-1", 5)
	require.NoError(t, err)
	require.Len(t, deployments, 2)

	ready := deployments[0]
	assert.Equal(t, domain.StatusReady, ready.Status)
	require.NotNil(t, ready.ReadyAt)
	// published_at wins over updated_at.
	assert.Equal(t, time.Date(2025, 6, 1, 12, 2, 30, 0, time.UTC), ready.ReadyAt.UTC())
	assert.Equal(t, "main", ready.Branch)
	assert.Equal(t, "docs: update readme", ready.CommitMessage)
	assert.Equal(t, "cafebab", ready.ShortCommitSHA())

	// A non-ready deploy must not borrow its updated_at as completion.
	building := deployments[1]
	assert.Equal(t, domain.StatusBuilding, building.Status)
	assert.Nil(t, building.ReadyAt)
}

func TestNetlifyClient_FetchDeployment(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/deploys/deploy-9", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id":"deploy-9",
			"site_id":"site-1",
			"state":"error",
			"admin_url":"https://app.netlify.com/sites/docs/deploys/deploy-9",
			"created_at":"2025-06-01T12:00:00Z",
			"error_message":"Command failed with exit code 1",
			"deploy_time":33
		}`))
	}))
	defer server.Close()

	client := &NetlifyClient{baseURL: server.URL, httpClient: server.Client()}
	deployment, err := client.FetchDeployment(t.Context(), "test-token", "site-1", "deploy-9")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusError, deployment.Status)
	assert.Equal(t, "Command failed with exit code 1", deployment.ErrorMessage)
	assert.Nil(t, deployment.ReadyAt)
}
