package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/repository"
)

// Service handles project lookups.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get fetches a project by ID within the tenant.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Resolve fetches a project referenced by a caller. A project that exists
// under another tenant yields tenant.ErrMismatch instead of not-found.
func (s *Service) Resolve(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.Get(ctx, tenantID, id)
	if !errors.Is(err, ErrProjectNotFound) {
		return proj, err
	}

	owned, lookupErr := s.repo.Lookup(ctx, id)
	if lookupErr != nil {
		if errors.Is(lookupErr, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("looking up project: %w", lookupErr)
	}
	if err := tenant.Check(tenantID, owned.TenantID, "project", id); err != nil {
		if s.logger != nil {
			s.logger.Warn("cross-tenant project reference", "tenant_id", tenantID, "project_id", id)
		}
		return nil, err
	}
	return nil, ErrProjectNotFound
}

// List returns the tenant's non-deleted projects.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error) {
	projects, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}
