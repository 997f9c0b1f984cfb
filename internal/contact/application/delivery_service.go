package application

import (
	"context"
	"time"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

// DeliveryService describes admin use-cases over failed deliveries.
type DeliveryService interface {
	List(ctx context.Context, filter DeliveryFilter, paging Paging) ([]domain.FailedDelivery, error)
	Detail(ctx context.Context, id string) (*domain.FailedDelivery, error)
	SetStatus(ctx context.Context, id string, status domain.DeliveryStatus) (*domain.FailedDelivery, error)
}

// maxDeliveryPageSize caps admin listings.
const maxDeliveryPageSize = 200

func NewDeliveryService(repo FailedDeliveryRepository) DeliveryService {
	return &deliveryService{repo: repo, now: time.Now}
}

type deliveryService struct {
	repo FailedDeliveryRepository
	now  func() time.Time
}

func (s *deliveryService) List(ctx context.Context, filter DeliveryFilter, paging Paging) ([]domain.FailedDelivery, error) {
	return s.repo.Find(ctx, filter, paging.Normalize())
}

func (s *deliveryService) Detail(ctx context.Context, id string) (*domain.FailedDelivery, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *deliveryService) SetStatus(ctx context.Context, id string, status domain.DeliveryStatus) (*domain.FailedDelivery, error) {
	return s.repo.UpdateStatus(ctx, id, status, s.now().UTC())
}
