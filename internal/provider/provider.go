// Package provider contains the Vercel and Netlify API clients and the
// payload-to-domain normalization logic, including the heuristic that
// separates genuine build failures from skipped monorepo deploys.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deploywatch/deploywatch/internal/domain"
)

// DefaultDeploymentsPerProject is the number of recent deployments fetched
// for each project.
const DefaultDeploymentsPerProject = 5

// defaultTimeout bounds every provider request when the caller does not
// configure one.
const defaultTimeout = 30 * time.Second

// Client is the narrow surface the engine needs from a provider API.
//
//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=provider.go Client
type Client interface {
	// ValidateToken checks whether the token authenticates against the
	// provider. A well-formed rejection returns (false, nil); errors are
	// reserved for transport failures.
	ValidateToken(ctx context.Context, token string) (bool, error)

	// FetchProjects lists the account's projects, without deployments.
	FetchProjects(ctx context.Context, token string, accountID uuid.UUID) ([]domain.Project, error)

	// FetchDeployments lists the most recent deployments of one project,
	// newest first, at most limit entries.
	FetchDeployments(ctx context.Context, token, projectID string, limit int) ([]domain.Deployment, error)

	// FetchDeployment retrieves a single deployment by id.
	FetchDeployment(ctx context.Context, token, projectID, deploymentID string) (domain.Deployment, error)
}

// NewClients returns the client for every supported provider, sharing one
// HTTP client with the given request timeout.
func NewClients(timeout time.Duration) map[domain.Service]Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}
	return map[domain.Service]Client{
		domain.ServiceVercel:  NewVercelClient(httpClient),
		domain.ServiceNetlify: NewNetlifyClient(httpClient),
	}
}

// skipKeywords mark an error-coded deployment as a skipped no-op deploy
// rather than a genuine failure.
var skipKeywords = []string{
	"skipped",
	"canceled",
	"no changes",
	"ignored",
	"not in scope",
}

// classifyErrorState disambiguates an error-coded deployment into Error vs
// Skipped. Both providers report monorepo no-op deploys with the same wire
// value as a build failure; real failures carry an error message or a
// record that the build started, skipped deploys usually carry neither.
// Best-effort classification, not a documented provider contract.
func classifyErrorState(errorMessage string, buildStarted bool) domain.DeploymentStatus {
	if errorMessage != "" {
		message := strings.ToLower(errorMessage)
		for _, keyword := range skipKeywords {
			if strings.Contains(message, keyword) {
				return domain.StatusSkipped
			}
		}
		return domain.StatusError
	}
	if !buildStarted {
		return domain.StatusSkipped
	}
	return domain.StatusError
}

// get performs an authenticated GET and returns the response body for any
// 2xx status. Non-2xx statuses map onto the shared error taxonomy.
func get(ctx context.Context, httpClient *http.Client, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return body, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return ErrInvalidToken
	case resp.StatusCode == 429:
		return &RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return &ServerError{StatusCode: resp.StatusCode}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodingError{Err: err}
	}
	return nil
}
