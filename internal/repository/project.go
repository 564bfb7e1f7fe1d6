package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/deppfellow/projects-api/internal/model"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrProjectNotFound is returned when no stored project has the requested id.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository is the ordered in-memory project store.
//
// Projects are kept in insertion order. Readers share the lock, every
// mutation takes it exclusively so id uniqueness and positions hold under
// concurrent requests.
type ProjectRepository struct {
	mu       sync.RWMutex
	projects []model.Project

	// newID generates project ids. Swapped in tests.
	newID func() string
}

// NewProjectRepository creates an empty store and, when metrics are
// enabled, exposes its size as the projects_stored gauge.
func NewProjectRepository(s *server.Server) *ProjectRepository {
	r := &ProjectRepository{
		projects: []model.Project{},
		newID:    uuid.NewString,
	}

	if s != nil && s.Metrics != nil && s.Config.Observability.Metrics.Enabled {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "projects_stored",
			Help: "Number of projects currently held in memory.",
		}, func() float64 {
			return float64(r.Count())
		})

		if err := s.Metrics.Register(gauge); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to register projects_stored gauge")
		}
	}

	return r
}

// List returns the projects whose title contains title (case-sensitive),
// in store order. An empty title matches every project. The result is a
// copy and never nil.
func (r *ProjectRepository) List(ctx context.Context, title string) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if strings.Contains(p.Title, title) {
			result = append(result, p)
		}
	}

	return result, nil
}

// Create stores a new project under a freshly generated id and returns it.
func (r *ProjectRepository) Create(ctx context.Context, title, owner string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for r.indexOf(id) >= 0 {
		id = r.newID()
	}

	project := model.Project{
		ID:    id,
		Title: title,
		Owner: owner,
	}
	r.projects = append(r.projects, project)

	return &project, nil
}

// Update replaces title and owner of the project with the given id,
// keeping its id and position.
func (r *ProjectRepository) Update(ctx context.Context, id, title, owner string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrProjectNotFound
	}

	r.projects[i].Title = title
	r.projects[i].Owner = owner

	project := r.projects[i]
	return &project, nil
}

// Delete removes the project with the given id. Later projects shift
// down by one position.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProjectNotFound
	}

	r.projects = append(r.projects[:i], r.projects[i+1:]...)
	return nil
}

// Count returns the number of stored projects.
func (r *ProjectRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.projects)
}

// indexOf returns the position of the first project with id, or -1.
// Callers must hold the lock.
func (r *ProjectRepository) indexOf(id string) int {
	for i := range r.projects {
		if r.projects[i].ID == id {
			return i
		}
	}
	return -1
}
