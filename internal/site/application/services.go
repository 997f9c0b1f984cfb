package application

import (
	"context"

	"github.com/baumsteiger-allgaeu/site/api/internal/site/domain"
)

// CatalogRepository abstracts read access to the service catalog.
type CatalogRepository interface {
	Services(ctx context.Context) ([]domain.Service, error)
	ServiceByID(ctx context.Context, id string) (*domain.Service, error)
	Company(ctx context.Context) (domain.Company, error)
}

// CatalogQueryService describes read use-cases for the public site.
type CatalogQueryService interface {
	List(ctx context.Context) ([]domain.Service, error)
	Detail(ctx context.Context, id string) (*domain.Service, error)
	Company(ctx context.Context) (domain.Company, error)
}
