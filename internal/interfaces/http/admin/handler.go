package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger     *log.Logger
	deliveries contactapp.DeliveryService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger     *log.Logger
	Deliveries contactapp.DeliveryService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		deliveries: cfg.Deliveries,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/deliveries", h.deliveryListHandler())
	r.Get("/deliveries/{id}", h.deliveryDetailHandler())
	r.Patch("/deliveries/{id}", h.deliveryUpdateHandler())
}
