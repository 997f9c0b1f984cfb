package public

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"

	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	siteapp "github.com/baumsteiger-allgaeu/site/api/internal/site/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	contact       contactapp.ContactService
	catalog       siteapp.CatalogQueryService
	sendTimeout   time.Duration
	consentCodec  *securecookie.SecureCookie
	consentSecure bool
	now           func() time.Time
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *log.Logger
	Contact contactapp.ContactService
	Catalog siteapp.CatalogQueryService
	// SendTimeout bounds one contact submission including the relay call.
	SendTimeout time.Duration
	// ConsentHashKey signs the consent cookie. A random key is generated
	// when empty, which invalidates stored preferences on restart.
	ConsentHashKey []byte
	ConsentSecure  bool
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hashKey := cfg.ConsentHashKey
	if len(hashKey) == 0 {
		logger.Printf("CONSENT_COOKIE_HASH_KEY が未設定のため一時キーを生成します")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	return &Handler{
		logger:        logger,
		contact:       cfg.Contact,
		catalog:       cfg.Catalog,
		sendTimeout:   timeout,
		consentCodec:  newConsentCodec(hashKey),
		consentSecure: cfg.ConsentSecure,
		now:           time.Now,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/contact", h.contactHandler())
	r.Get("/services", h.serviceListHandler())
	r.Get("/services/{id}", h.serviceDetailHandler())
	r.Get("/company", h.companyHandler())
	r.Get("/consent", h.consentGetHandler())
	r.Post("/consent", h.consentPostHandler())
}

// NotFound answers unknown API routes with JSON instead of the static site.
func (h *Handler) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(h.logger, w, http.StatusNotFound, "not found")
	}
}
