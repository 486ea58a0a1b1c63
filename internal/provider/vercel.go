package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deploywatch/deploywatch/internal/domain"
)

// vercelBaseURL is the Vercel REST API root.
const vercelBaseURL = "https://api.vercel.com"

// VercelClient talks to the Vercel REST API. It holds no mutable state
// and is safe for concurrent use.
type VercelClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewVercelClient creates a Vercel client on top of the given HTTP client.
func NewVercelClient(httpClient *http.Client) *VercelClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &VercelClient{baseURL: vercelBaseURL, httpClient: httpClient}
}

// ValidateToken checks the token against the authenticated-user endpoint.
func (c *VercelClient) ValidateToken(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/user", nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

// FetchProjects lists the account's projects.
func (c *VercelClient) FetchProjects(ctx context.Context, token string, accountID uuid.UUID) ([]domain.Project, error) {
	body, err := get(ctx, c.httpClient, c.baseURL+"/v9/projects?limit=100", token)
	if err != nil {
		return nil, err
	}

	var payload vercelProjectsResponse
	if err := decode(body, &payload); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(payload.Projects))
	for _, p := range payload.Projects {
		projects = append(projects, p.toProject(accountID))
	}
	return projects, nil
}

// FetchDeployments lists the most recent deployments of one project.
func (c *VercelClient) FetchDeployments(ctx context.Context, token, projectID string, limit int) ([]domain.Deployment, error) {
	if limit <= 0 {
		limit = DefaultDeploymentsPerProject
	}
	endpoint := fmt.Sprintf("%s/v6/deployments?limit=%d&projectId=%s", c.baseURL, limit, url.QueryEscape(projectID))
	body, err := get(ctx, c.httpClient, endpoint, token)
	if err != nil {
		return nil, err
	}

	var payload vercelDeploymentsResponse
	if err := decode(body, &payload); err != nil {
		return nil, err
	}

	deployments := make([]domain.Deployment, 0, len(payload.Deployments))
	for _, d := range payload.Deployments {
		deployments = append(deployments, d.toDeployment())
	}
	return deployments, nil
}

// FetchDeployment retrieves a single deployment by id. Vercel deployment
// ids are globally unique, so the project id is unused.
func (c *VercelClient) FetchDeployment(ctx context.Context, token, _, deploymentID string) (domain.Deployment, error) {
	body, err := get(ctx, c.httpClient, c.baseURL+"/v13/deployments/"+url.PathEscape(deploymentID), token)
	if err != nil {
		return domain.Deployment{}, err
	}

	var payload vercelDeployment
	if err := decode(body, &payload); err != nil {
		return domain.Deployment{}, err
	}
	return payload.toDeployment(), nil
}

type vercelProjectsResponse struct {
	Projects []vercelProject `json:"projects"`
}

type vercelProject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Framework string `json:"framework"`
}

func (p vercelProject) toProject(accountID uuid.UUID) domain.Project {
	return domain.Project{
		ID:        p.ID,
		AccountID: accountID,
		Service:   domain.ServiceVercel,
		Name:      p.Name,
		AdminURL:  "https://vercel.com/~/" + p.Name,
		Framework: p.Framework,
	}
}

type vercelDeploymentsResponse struct {
	Deployments []vercelDeployment `json:"deployments"`
}

type vercelDeployment struct {
	UID          string      `json:"uid"`
	Name         string      `json:"name"`
	URL          string      `json:"url"`
	State        string      `json:"state"`
	ReadyState   string      `json:"readyState"`
	Created      float64     `json:"created"`
	Ready        *float64    `json:"ready"`
	BuildingAt   *float64    `json:"buildingAt"`
	Meta         *vercelMeta `json:"meta"`
	ErrorCode    string      `json:"errorCode"`
	ErrorMessage string      `json:"errorMessage"`
}

// vercelMeta carries source-control metadata. Vercel populates one set of
// fields depending on the connected integration.
type vercelMeta struct {
	GithubCommitSHA        string `json:"githubCommitSha"`
	GithubCommitMessage    string `json:"githubCommitMessage"`
	GithubCommitRef        string `json:"githubCommitRef"`
	GitlabCommitSHA        string `json:"gitlabCommitSha"`
	GitlabCommitMessage    string `json:"gitlabCommitMessage"`
	GitlabCommitRef        string `json:"gitlabCommitRef"`
	BitbucketCommitSHA     string `json:"bitbucketCommitSha"`
	BitbucketCommitMessage string `json:"bitbucketCommitMessage"`
	BitbucketCommitRef     string `json:"bitbucketCommitRef"`
}

func (d vercelDeployment) toDeployment() domain.Deployment {
	state := d.State
	if state == "" {
		state = d.ReadyState
	}
	status := parseVercelStatus(state, d.ErrorMessage, d.BuildingAt)

	createdAt := time.UnixMilli(int64(d.Created)).UTC()

	// Vercel populates "ready" on finished ERROR deployments too; a
	// completion timestamp on a non-ready deploy is not a success time.
	var readyAt *time.Time
	if status == domain.StatusReady && d.Ready != nil {
		t := time.UnixMilli(int64(*d.Ready)).UTC()
		readyAt = &t
	}

	// First integration with data wins: GitHub, then GitLab, then Bitbucket.
	commitSHA := firstNonEmpty(d.Meta.sha())
	commitMessage := firstNonEmpty(d.Meta.message())
	branch := firstNonEmpty(d.Meta.ref())

	liveURL := ""
	if d.URL != "" {
		liveURL = "https://" + d.URL
	}

	return domain.Deployment{
		ID:            d.UID,
		ProjectID:     d.Name,
		Service:       domain.ServiceVercel,
		Status:        status,
		URL:           liveURL,
		AdminURL:      fmt.Sprintf("https://vercel.com/~/%s/%s", d.Name, d.UID),
		CreatedAt:     createdAt,
		ReadyAt:       readyAt,
		Branch:        branch,
		CommitMessage: commitMessage,
		CommitSHA:     commitSHA,
		ErrorMessage:  d.ErrorMessage,
	}
}

func (m *vercelMeta) sha() []string {
	if m == nil {
		return nil
	}
	return []string{m.GithubCommitSHA, m.GitlabCommitSHA, m.BitbucketCommitSHA}
}

func (m *vercelMeta) message() []string {
	if m == nil {
		return nil
	}
	return []string{m.GithubCommitMessage, m.GitlabCommitMessage, m.BitbucketCommitMessage}
}

func (m *vercelMeta) ref() []string {
	if m == nil {
		return nil
	}
	return []string{m.GithubCommitRef, m.GitlabCommitRef, m.BitbucketCommitRef}
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// vercelStatusTable maps Vercel wire states onto the domain model.
var vercelStatusTable = map[string]domain.DeploymentStatus{
	"QUEUED":       domain.StatusQueued,
	"PENDING":      domain.StatusQueued,
	"INITIALIZING": domain.StatusQueued,
	"BUILDING":     domain.StatusBuilding,
	"READY":        domain.StatusReady,
	"ERROR":        domain.StatusError,
	"CANCELED":     domain.StatusCanceled,
	"SKIPPED":      domain.StatusSkipped,
}

func parseVercelStatus(state, errorMessage string, buildingAt *float64) domain.DeploymentStatus {
	stateUpper := strings.ToUpper(state)
	if stateUpper == "ERROR" {
		return classifyErrorState(errorMessage, buildingAt != nil)
	}
	if status, ok := vercelStatusTable[stateUpper]; ok {
		return status
	}
	// Unknown transient states fail open rather than surfacing as broken.
	return domain.StatusQueued
}
