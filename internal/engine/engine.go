// Package engine owns the in-memory snapshot of accounts and projects
// and orchestrates concurrent refreshes against the provider APIs.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/deploywatch/deploywatch/internal/accounts"
	"github.com/deploywatch/deploywatch/internal/credstore"
	"github.com/deploywatch/deploywatch/internal/domain"
	"github.com/deploywatch/deploywatch/internal/provider"
)

// activeWindow is the trailing period during which a finished deployment
// still counts as recent activity for the aggregate views.
const activeWindow = time.Hour

// maxConcurrentFetches bounds the per-project deployment fetch fan-out
// within one account refresh.
const maxConcurrentFetches = 8

// validationMaxTries bounds the credential validation retries during
// AddAccount. Only transport failures are retried; a provider rejection
// is final.
const validationMaxTries = 3

// Engine is the synchronization engine. It is the single writer of the
// snapshot; derived views may be read concurrently at any time.
type Engine struct {
	clients     map[domain.Service]provider.Client
	credentials credstore.Store
	repository  accounts.Repository

	deploymentsPerProject int

	mu              sync.RWMutex
	accounts        []domain.Account
	projects        []domain.Project
	loading         bool
	lastRefreshedAt *time.Time
	lastErr         error
}

// Option is a function that configures the engine
type Option func(*Engine)

// WithDeploymentsPerProject overrides how many recent deployments are
// kept per project.
func WithDeploymentsPerProject(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.deploymentsPerProject = n
		}
	}
}

// New creates an engine with injected collaborators and loads the
// persisted account list.
func New(
	clients map[domain.Service]provider.Client,
	credentials credstore.Store,
	repository accounts.Repository,
	opts ...Option,
) (*Engine, error) {
	stored, err := repository.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	e := &Engine{
		clients:               clients,
		credentials:           credentials,
		repository:            repository,
		deploymentsPerProject: provider.DefaultDeploymentsPerProject,
		accounts:              stored,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// AddAccount validates the token against the provider, saves the
// credential, registers the account and refreshes it. The credential is
// only persisted after a successful validation.
func (e *Engine) AddAccount(ctx context.Context, account domain.Account, token string) error {
	client, ok := e.clients[account.Service]
	if !ok {
		return fmt.Errorf("unknown service: %s", account.Service)
	}

	// Transport blips should not fail an interactive add; retry briefly.
	// A definitive rejection from the provider is permanent.
	valid, err := backoff.Retry(ctx, func() (bool, error) {
		valid, err := client.ValidateToken(ctx, token)
		if err != nil {
			if provider.IsNetworkError(err) {
				return false, err
			}
			return false, backoff.Permanent(err)
		}
		return valid, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(validationMaxTries))
	if err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}
	if !valid {
		return provider.ErrInvalidToken
	}

	if err := e.credentials.Save(account.CredentialKey(), token); err != nil {
		return err
	}

	e.mu.Lock()
	e.accounts = append(e.accounts, account)
	saveErr := e.repository.Save(e.accounts)
	e.mu.Unlock()
	if saveErr != nil {
		return saveErr
	}

	slog.Info("Account added", "service", string(account.Service), "name", account.Name)

	// Populate the new account's projects; a refresh failure here is
	// recorded but does not undo the add.
	if _, err := e.RefreshAccount(ctx, account.ID); err != nil {
		slog.Warn("Initial refresh failed", "account", account.Name, "error", err)
	}
	return nil
}

// RemoveAccount deletes the credential and drops the account and all of
// its projects. Removing an unknown id is a no-op.
func (e *Engine) RemoveAccount(_ context.Context, id uuid.UUID) error {
	account, ok := e.findAccount(id)
	if !ok {
		return nil
	}

	if err := e.credentials.Delete(account.CredentialKey()); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.projects[:0:0]
	for _, project := range e.projects {
		if project.AccountID != id {
			kept = append(kept, project)
		}
	}
	e.projects = kept

	for i, a := range e.accounts {
		if a.ID == id {
			e.accounts = append(e.accounts[:i], e.accounts[i+1:]...)
			break
		}
	}
	return e.repository.Save(e.accounts)
}

// SetAccountEnabled flips whether an account participates in refreshes.
func (e *Engine) SetAccountEnabled(_ context.Context, id uuid.UUID, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.accounts {
		if e.accounts[i].ID == id {
			e.accounts[i].Enabled = enabled
			return e.repository.Save(e.accounts)
		}
	}
	return fmt.Errorf("unknown account: %s", id)
}

// RefreshAll concurrently refreshes every enabled account and blocks
// until all complete. Per-account failures are recorded and do not abort
// sibling refreshes; lastRefreshedAt is updated regardless.
func (e *Engine) RefreshAll(ctx context.Context) {
	e.mu.Lock()
	e.loading = true
	e.lastErr = nil
	enabled := make([]domain.Account, 0, len(e.accounts))
	for _, account := range e.accounts {
		if account.Enabled {
			enabled = append(enabled, account)
		}
	}
	e.mu.Unlock()

	group, groupCtx := errgroup.WithContext(ctx)
	for _, account := range enabled {
		group.Go(func() error {
			if _, err := e.RefreshAccount(groupCtx, account.ID); err != nil {
				slog.Warn("Account refresh failed",
					"account", account.Name,
					"service", string(account.Service),
					"error", err)
			}
			// Errors are swallowed so one failing account cannot cancel
			// its siblings through the group context.
			return nil
		})
	}
	_ = group.Wait()

	now := time.Now()
	e.mu.Lock()
	e.lastRefreshedAt = &now
	e.loading = false
	e.mu.Unlock()
}

// RefreshAccount fetches the account's project list, then its recent
// deployments per project concurrently, and atomically replaces the
// account's slice of the snapshot. On failure the prior state is left
// untouched and the error is recorded.
func (e *Engine) RefreshAccount(ctx context.Context, id uuid.UUID) ([]domain.Project, error) {
	account, ok := e.findAccount(id)
	if !ok {
		return nil, fmt.Errorf("unknown account: %s", id)
	}

	client, ok := e.clients[account.Service]
	if !ok {
		return nil, e.recordError(fmt.Errorf("unknown service: %s", account.Service))
	}

	token, err := e.credentials.Load(account.CredentialKey())
	if err != nil {
		return nil, e.recordError(fmt.Errorf("no credential for account %s: %w", account.Name, err))
	}

	fetched, err := client.FetchProjects(ctx, token, account.ID)
	if err != nil {
		return nil, e.recordError(err)
	}

	// Deployment fetches are unordered across projects; results land by
	// index so the merge is keyed, not arrival-ordered.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)
	for i := range fetched {
		group.Go(func() error {
			deployments, err := client.FetchDeployments(groupCtx, token, fetched[i].ID, e.deploymentsPerProject)
			if err != nil {
				slog.Warn("Deployment fetch failed",
					"project", fetched[i].Name,
					"error", err)
				return nil
			}
			sort.Slice(deployments, func(a, b int) bool {
				return deployments[a].CreatedAt.After(deployments[b].CreatedAt)
			})
			if len(deployments) > e.deploymentsPerProject {
				deployments = deployments[:e.deploymentsPerProject]
			}
			fetched[i].Deployments = deployments
			return nil
		})
	}
	_ = group.Wait()

	// Single critical section: a concurrent reader sees either the old
	// slice or the new one, never the account-less intermediate state.
	e.mu.Lock()
	merged := make([]domain.Project, 0, len(e.projects)+len(fetched))
	for _, project := range e.projects {
		if project.AccountID != id {
			merged = append(merged, project)
		}
	}
	merged = append(merged, fetched...)
	sortByLatestDeployment(merged)
	e.projects = merged
	e.mu.Unlock()

	return fetched, nil
}

func (e *Engine) recordError(err error) error {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
	return err
}

func (e *Engine) findAccount(id uuid.UUID) (domain.Account, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, account := range e.accounts {
		if account.ID == id {
			return account, true
		}
	}
	return domain.Account{}, false
}

func sortByLatestDeployment(projects []domain.Project) {
	sort.SliceStable(projects, func(a, b int) bool {
		return latestCreatedAt(projects[a]).After(latestCreatedAt(projects[b]))
	})
}

func latestCreatedAt(project domain.Project) time.Time {
	deployment, ok := project.LatestDeployment()
	if !ok {
		return time.Time{}
	}
	return deployment.CreatedAt
}
