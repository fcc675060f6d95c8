package build

import (
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
)

// Service is the build pipeline: it reserves resources for construction
// requests, cancels pending builds, and demolishes installed buildings.
// Completion itself happens in the turn processor.
type Service struct {
	repos *common.Repos
	uow   common.UnitOfWork
}

// NewService creates a new build pipeline service
func NewService(repos *common.Repos, uow common.UnitOfWork) *Service {
	return &Service{repos: repos, uow: uow}
}
