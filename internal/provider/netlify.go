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

// netlifyBaseURL is the Netlify REST API root.
const netlifyBaseURL = "https://api.netlify.com/api/v1"

// NetlifyClient talks to the Netlify REST API. It holds no mutable state
// and is safe for concurrent use.
type NetlifyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNetlifyClient creates a Netlify client on top of the given HTTP client.
func NewNetlifyClient(httpClient *http.Client) *NetlifyClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &NetlifyClient{baseURL: netlifyBaseURL, httpClient: httpClient}
}

// ValidateToken checks the token against the authenticated-user endpoint.
func (c *NetlifyClient) ValidateToken(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
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

// FetchProjects lists the account's sites.
func (c *NetlifyClient) FetchProjects(ctx context.Context, token string, accountID uuid.UUID) ([]domain.Project, error) {
	body, err := get(ctx, c.httpClient, c.baseURL+"/sites", token)
	if err != nil {
		return nil, err
	}

	var sites []netlifySite
	if err := decode(body, &sites); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(sites))
	for _, s := range sites {
		projects = append(projects, s.toProject(accountID))
	}
	return projects, nil
}

// FetchDeployments lists the most recent deploys of one site.
func (c *NetlifyClient) FetchDeployments(ctx context.Context, token, projectID string, limit int) ([]domain.Deployment, error) {
	if limit <= 0 {
		limit = DefaultDeploymentsPerProject
	}
	endpoint := fmt.Sprintf("%s/sites/%s/deploys?per_page=%d", c.baseURL, url.PathEscape(projectID), limit)
	body, err := get(ctx, c.httpClient, endpoint, token)
	if err != nil {
		return nil, err
	}

	var deploys []netlifyDeploy
	if err := decode(body, &deploys); err != nil {
		return nil, err
	}

	deployments := make([]domain.Deployment, 0, len(deploys))
	for _, d := range deploys {
		deployments = append(deployments, d.toDeployment())
	}
	return deployments, nil
}

// FetchDeployment retrieves a single deploy of a site.
func (c *NetlifyClient) FetchDeployment(ctx context.Context, token, projectID, deploymentID string) (domain.Deployment, error) {
	endpoint := fmt.Sprintf("%s/sites/%s/deploys/%s", c.baseURL, url.PathEscape(projectID), url.PathEscape(deploymentID))
	body, err := get(ctx, c.httpClient, endpoint, token)
	if err != nil {
		return domain.Deployment{}, err
	}

	var deploy netlifyDeploy
	if err := decode(body, &deploy); err != nil {
		return domain.Deployment{}, err
	}
	return deploy.toDeployment(), nil
}

type netlifySite struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	SSLURL   string `json:"ssl_url"`
	AdminURL string `json:"admin_url"`
}

func (s netlifySite) toProject(accountID uuid.UUID) domain.Project {
	siteURL := s.SSLURL
	if siteURL == "" {
		siteURL = s.URL
	}
	return domain.Project{
		ID:        s.ID,
		AccountID: accountID,
		Service:   domain.ServiceNetlify,
		Name:      s.Name,
		URL:       siteURL,
		AdminURL:  s.AdminURL,
	}
}

type netlifyDeploy struct {
	ID           string     `json:"id"`
	SiteID       string     `json:"site_id"`
	State        string     `json:"state"`
	URL          string     `json:"url"`
	SSLURL       string     `json:"ssl_url"`
	AdminURL     string     `json:"admin_url"`
	DeployURL    string     `json:"deploy_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at"`
	Title        string     `json:"title"`
	CommitRef    string     `json:"commit_ref"`
	Branch       string     `json:"branch"`
	ErrorMessage string     `json:"error_message"`
	DeployTime   *int       `json:"deploy_time"`
}

func (d netlifyDeploy) toDeployment() domain.Deployment {
	status := parseNetlifyStatus(d.State, d.ErrorMessage, d.DeployTime)

	// A raw "updated" timestamp on a non-ready deploy is not completion.
	var readyAt *time.Time
	if status == domain.StatusReady {
		readyAt = d.PublishedAt
		if readyAt == nil {
			readyAt = d.UpdatedAt
		}
	}

	liveURL := d.SSLURL
	if liveURL == "" {
		liveURL = d.URL
	}
	if liveURL == "" {
		liveURL = d.DeployURL
	}

	return domain.Deployment{
		ID:            d.ID,
		ProjectID:     d.SiteID,
		Service:       domain.ServiceNetlify,
		Status:        status,
		URL:           liveURL,
		AdminURL:      d.AdminURL,
		CreatedAt:     d.CreatedAt,
		ReadyAt:       readyAt,
		Branch:        d.Branch,
		CommitMessage: d.Title,
		CommitSHA:     d.CommitRef,
		ErrorMessage:  d.ErrorMessage,
	}
}

// netlifyStatusTable maps Netlify wire states onto the domain model.
var netlifyStatusTable = map[string]domain.DeploymentStatus{
	"new":        domain.StatusQueued,
	"pending":    domain.StatusQueued,
	"uploading":  domain.StatusQueued,
	"uploaded":   domain.StatusQueued,
	"preparing":  domain.StatusQueued,
	"prepared":   domain.StatusQueued,
	"enqueued":   domain.StatusQueued,
	"building":   domain.StatusBuilding,
	"processing": domain.StatusBuilding,
	"ready":      domain.StatusReady,
	"error":      domain.StatusError,
	"skipped":    domain.StatusSkipped,
	"canceled":   domain.StatusCanceled,
}

func parseNetlifyStatus(state, errorMessage string, deployTime *int) domain.DeploymentStatus {
	stateLower := strings.ToLower(state)
	if stateLower == "error" {
		buildStarted := deployTime != nil && *deployTime > 0
		return classifyErrorState(errorMessage, buildStarted)
	}
	if status, ok := netlifyStatusTable[stateLower]; ok {
		return status
	}
	// Unknown transient states fail open rather than surfacing as broken.
	return domain.StatusQueued
}
