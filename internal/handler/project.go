package handler

import (
	"github.com/deppfellow/projects-api/internal/model"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/deppfellow/projects-api/internal/service"
	"github.com/deppfellow/projects-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// ListProjectsRequest is bound from GET /projects?title=...
type ListProjectsRequest struct {
	Title string `query:"title"`
}

func (r *ListProjectsRequest) Validate() error {
	return nil
}

// CreateProjectRequest is the POST /projects body. Any client supplied id
// is ignored.
type CreateProjectRequest struct {
	Title string `json:"title" validate:"required"`
	Owner string `json:"owner" validate:"required"`

	requireFields bool
}

// Validate enforces title/owner only when strict payloads are configured.
func (r *CreateProjectRequest) Validate() error {
	if !r.requireFields {
		return nil
	}
	return validation.Struct(r)
}

// UpdateProjectRequest is PUT /projects/:id. The id comes from the path
// only, never from the body.
type UpdateProjectRequest struct {
	ID    string `param:"id" json:"-"`
	Title string `json:"title" validate:"required"`
	Owner string `json:"owner" validate:"required"`

	requireFields bool
}

func (r *UpdateProjectRequest) Validate() error {
	if !r.requireFields {
		return nil
	}
	return validation.Struct(r)
}

// DeleteProjectRequest is DELETE /projects/:id.
type DeleteProjectRequest struct {
	ID string `param:"id"`
}

func (r *DeleteProjectRequest) Validate() error {
	return nil
}

// ProjectHandler serves the /projects CRUD endpoints.
type ProjectHandler struct {
	Handler
	projects *service.ProjectService
}

func NewProjectHandler(s *server.Server, projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		Handler:  NewHandler(s),
		projects: projects,
	}
}

func (h *ProjectHandler) requireFields() bool {
	return h.server.Config.Projects.RequireFields
}

// Request constructors, one fresh value per request.

func (h *ProjectHandler) NewListRequest() *ListProjectsRequest {
	return &ListProjectsRequest{}
}

func (h *ProjectHandler) NewCreateRequest() *CreateProjectRequest {
	return &CreateProjectRequest{requireFields: h.requireFields()}
}

func (h *ProjectHandler) NewUpdateRequest() *UpdateProjectRequest {
	return &UpdateProjectRequest{requireFields: h.requireFields()}
}

func (h *ProjectHandler) NewDeleteRequest() *DeleteProjectRequest {
	return &DeleteProjectRequest{}
}

// ListProjects returns all projects, or those whose title contains the
// title query parameter.
func (h *ProjectHandler) ListProjects(c echo.Context, req *ListProjectsRequest) ([]model.Project, error) {
	return h.projects.ListProjects(c.Request().Context(), req.Title)
}

// CreateProject stores a new project under a generated id.
func (h *ProjectHandler) CreateProject(c echo.Context, req *CreateProjectRequest) (*model.Project, error) {
	return h.projects.CreateProject(c.Request().Context(), req.Title, req.Owner)
}

// UpdateProject replaces title and owner of the project at :id.
func (h *ProjectHandler) UpdateProject(c echo.Context, req *UpdateProjectRequest) (*model.Project, error) {
	return h.projects.UpdateProject(c.Request().Context(), req.ID, req.Title, req.Owner)
}

// DeleteProject removes the project at :id.
func (h *ProjectHandler) DeleteProject(c echo.Context, req *DeleteProjectRequest) error {
	return h.projects.DeleteProject(c.Request().Context(), req.ID)
}
