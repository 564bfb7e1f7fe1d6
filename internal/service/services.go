package service

import (
	"github.com/deppfellow/projects-api/internal/repository"
	"github.com/deppfellow/projects-api/internal/server"
)

// Services groups every business service so handlers receive one value.
type Services struct {
	Project *ProjectService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Project: NewProjectService(s, repos.Project),
	}, nil
}
