package repository

import (
	"github.com/deppfellow/projects-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Project *ProjectRepository
}

// NewRepositories constructs the repository container.
//
// Each call creates a fresh, empty project store, so one process normally
// calls it exactly once.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Project: NewProjectRepository(s),
	}
}
