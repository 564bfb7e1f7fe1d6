package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/projects-api/internal/errs"
	"github.com/deppfellow/projects-api/internal/model"
	"github.com/deppfellow/projects-api/internal/repository"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/rs/zerolog"
)

// ProjectStore is the storage contract ProjectService needs.
// *repository.ProjectRepository satisfies it.
type ProjectStore interface {
	List(ctx context.Context, title string) ([]model.Project, error)
	Create(ctx context.Context, title, owner string) (*model.Project, error)
	Update(ctx context.Context, id, title, owner string) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	Count() int
}

type ProjectService struct {
	server *server.Server
	store  ProjectStore
}

func NewProjectService(s *server.Server, store ProjectStore) *ProjectService {
	return &ProjectService{
		server: s,
		store:  store,
	}
}

// ListProjects returns every project whose title contains title.
func (ps *ProjectService) ListProjects(ctx context.Context, title string) ([]model.Project, error) {
	projects, err := ps.store.List(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// CreateProject stores a new project. Title and owner are taken as given.
func (ps *ProjectService) CreateProject(ctx context.Context, title, owner string) (*model.Project, error) {
	project, err := ps.store.Create(ctx, title, owner)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	ps.logger(ctx).Debug().
		Str("project_id", project.ID).
		Msg("project created")

	return project, nil
}

// UpdateProject replaces title and owner of an existing project.
func (ps *ProjectService) UpdateProject(ctx context.Context, id, title, owner string) (*model.Project, error) {
	project, err := ps.store.Update(ctx, id, title, owner)
	if err != nil {
		return nil, mapStoreError(err, "update project")
	}
	return project, nil
}

// DeleteProject removes a project.
func (ps *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := ps.store.Delete(ctx, id); err != nil {
		return mapStoreError(err, "delete project")
	}

	ps.logger(ctx).Debug().
		Str("project_id", id).
		Msg("project deleted")

	return nil
}

// logger returns the request-scoped logger carried by ctx, or the server
// logger outside of a request.
func (ps *ProjectService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return ps.server.Logger
}

// CountProjects reports the store size, used by the health check.
func (ps *ProjectService) CountProjects() int {
	return ps.store.Count()
}

// mapStoreError turns a missing project into the client-facing 400 and
// wraps everything else.
func mapStoreError(err error, op string) error {
	if errors.Is(err, repository.ErrProjectNotFound) {
		return errs.NewProjectNotFoundError()
	}
	return fmt.Errorf("%s: %w", op, err)
}
