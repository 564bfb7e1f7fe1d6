package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/projects-api/internal/errs"
	"github.com/deppfellow/projects-api/internal/model"
	"github.com/deppfellow/projects-api/internal/repository"
	"github.com/deppfellow/projects-api/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (f failingStore) List(context.Context, string) ([]model.Project, error) { return nil, f.err }
func (f failingStore) Create(context.Context, string, string) (*model.Project, error) {
	return nil, f.err
}
func (f failingStore) Update(context.Context, string, string, string) (*model.Project, error) {
	return nil, f.err
}
func (f failingStore) Delete(context.Context, string) error { return f.err }
func (f failingStore) Count() int { return 0 }

func newProjectService(t *testing.T) *ProjectService {
	t.Helper()

	s := testutil.NewServer(t, nil, nil)
	services, err := NewServices(s, repository.NewRepositories(s))
	require.NoError(t, err)
	return services.Project
}

func TestProjectServiceNotFound(t *testing.T) {
	ps := newProjectService(t)
	ctx := context.Background()

	_, err := ps.UpdateProject(ctx, "3f1c2a9e-8b7d-4c6e-9a5f-0d1e2f3a4b5c", "t", "o")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Project not found.", httpErr.Message)

	err = ps.DeleteProject(ctx, "3f1c2a9e-8b7d-4c6e-9a5f-0d1e2f3a4b5c")
	assert.ErrorIs(t, err, errs.NewProjectNotFoundError())
}

func TestProjectServiceCRUD(t *testing.T) {
	ps := newProjectService(t)
	ctx := context.Background()

	created, err := ps.CreateProject(ctx, "API", "alice")
	require.NoError(t, err)

	updated, err := ps.UpdateProject(ctx, created.ID, "API v2", "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	projects, err := ps.ListProjects(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, []model.Project{*updated}, projects)
	assert.Equal(t, 1, ps.CountProjects())

	require.NoError(t, ps.DeleteProject(ctx, created.ID))
	assert.Equal(t, 0, ps.CountProjects())
}

func TestProjectServiceLogsWithRequestLogger(t *testing.T) {
	ps := newProjectService(t)

	var buf bytes.Buffer
	requestLogger := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()
	ctx := requestLogger.WithContext(context.Background())

	created, err := ps.CreateProject(ctx, "API", "alice")
	require.NoError(t, err)
	require.NoError(t, ps.DeleteProject(ctx, created.ID))

	lines := testutil.LogLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "project created", lines[0]["message"])
	assert.Equal(t, "project deleted", lines[1]["message"])
	for _, line := range lines {
		assert.Equal(t, "req-1", line["request_id"])
		assert.Equal(t, created.ID, line["project_id"])
	}
}

func TestProjectServiceFallsBackToServerLogger(t *testing.T) {
	var buf bytes.Buffer
	s := testutil.NewServer(t, &buf, nil)
	ps := NewProjectService(s, repository.NewProjectRepository(s))

	_, err := ps.CreateProject(context.Background(), "API", "alice")
	require.NoError(t, err)

	assert.Len(t, testutil.LinesWithMessage(testutil.LogLines(t, &buf), "project created"), 1)
}

func TestProjectServiceWrapsStoreErrors(t *testing.T) {
	storeErr := errors.New("store unavailable")
	ps := NewProjectService(testutil.NewServer(t, nil, nil), failingStore{err: storeErr})
	ctx := context.Background()

	_, err := ps.ListProjects(ctx, "")
	assert.ErrorIs(t, err, storeErr)

	_, err = ps.CreateProject(ctx, "t", "o")
	assert.ErrorIs(t, err, storeErr)

	_, err = ps.UpdateProject(ctx, "id", "t", "o")
	assert.ErrorIs(t, err, storeErr)
	var httpErr *errs.HTTPError
	assert.False(t, errors.As(err, &httpErr))

	assert.ErrorIs(t, ps.DeleteProject(ctx, "id"), storeErr)
}
