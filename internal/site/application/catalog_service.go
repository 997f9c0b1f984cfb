package application

import (
	"context"
	"strings"

	"github.com/baumsteiger-allgaeu/site/api/internal/site/domain"
)

// catalogQueryService is the concrete implementation of CatalogQueryService.
type catalogQueryService struct {
	repo CatalogRepository
}

// NewCatalogQueryService creates a new catalog query service.
func NewCatalogQueryService(repo CatalogRepository) CatalogQueryService {
	return &catalogQueryService{repo: repo}
}

func (s *catalogQueryService) List(ctx context.Context) ([]domain.Service, error) {
	return s.repo.Services(ctx)
}

func (s *catalogQueryService) Detail(ctx context.Context, id string) (*domain.Service, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, domain.ErrServiceNotFound
	}
	return s.repo.ServiceByID(ctx, id)
}

func (s *catalogQueryService) Company(ctx context.Context) (domain.Company, error) {
	return s.repo.Company(ctx)
}
