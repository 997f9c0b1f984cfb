// Package static serves the prebuilt site next to the API.
package static

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crewjam/csp"
)

// Handler serves files from a directory with CSP and cache headers.
type Handler struct {
	logger *log.Logger
	files  http.Handler
	policy string
	maxAge time.Duration
}

// Config provides dependencies for Handler.
type Config struct {
	Logger *log.Logger
	Dir    string
	// SiteURL adds the site host to default-src next to 'self'.
	SiteURL string
}

// NewHandler constructs a static file handler rooted at cfg.Dir.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger: cfg.Logger,
		files:  http.FileServer(http.Dir(cfg.Dir)),
		policy: contentSecurityPolicy(cfg.Logger, cfg.SiteURL),
		maxAge: 24 * time.Hour,
	}
}

func contentSecurityPolicy(logger *log.Logger, siteURL string) string {
	sources := []string{"'self'"}
	if siteURL = strings.TrimSpace(siteURL); siteURL != "" {
		u, err := url.Parse(siteURL)
		if err != nil || u.Hostname() == "" {
			if logger != nil {
				logger.Printf("Content-Security-Policy に SITE_URL を追加できません: %q", siteURL)
			}
		} else {
			sources = append(sources, u.Hostname())
		}
	}
	return csp.Header{DefaultSrc: sources}.String()
}

// ServeHTTP answers GET and HEAD only.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Security-Policy", h.policy)
	w.Header().Set("Expires", time.Now().Add(h.maxAge).UTC().Truncate(time.Second).Format(http.TimeFormat))
	h.files.ServeHTTP(w, r)
}
