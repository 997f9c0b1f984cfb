package public

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/common"
)

const (
	consentCookieName   = "baumsteiger-cookie-consent"
	consentCookieTTL    = 180 * 24 * time.Hour
	consentCookieMaxAge = int(consentCookieTTL / time.Second)
)

func newConsentCodec(hashKey []byte) *securecookie.SecureCookie {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(consentCookieMaxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return codec
}

func (h *Handler) consentGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		consent, ok := h.readConsent(r)
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusOK, consentResponse{})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, consentResponse{Consent: &consent})
	}
}

func (h *Handler) consentPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs := messagesFor(common.PreferredLanguage(r))

		payload := struct {
			Accepted *bool `json:"accepted"`
		}{}
		defer r.Body.Close()
		decoder := json.NewDecoder(io.LimitReader(r.Body, 1024))
		if err := decoder.Decode(&payload); err != nil {
			writeError(h.logger, w, http.StatusBadRequest, msgs.invalidRequest)
			return
		}
		if payload.Accepted == nil {
			writeError(h.logger, w, http.StatusBadRequest, msgs.consentRequired)
			return
		}

		consent := consentPayload{Accepted: *payload.Accepted, Timestamp: h.now().UTC().Truncate(time.Second)}
		if err := h.issueConsentCookie(w, consent); err != nil {
			h.logger.Printf("consent cookie error: %v", err)
			writeError(h.logger, w, http.StatusInternalServerError, msgs.failed)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, consentResponse{Consent: &consent})
	}
}

func (h *Handler) readConsent(r *http.Request) (consentPayload, bool) {
	cookie, err := r.Cookie(consentCookieName)
	if err != nil {
		return consentPayload{}, false
	}
	var consent consentPayload
	if err := h.consentCodec.Decode(consentCookieName, cookie.Value, &consent); err != nil {
		return consentPayload{}, false
	}
	return consent, true
}

func (h *Handler) issueConsentCookie(w http.ResponseWriter, consent consentPayload) error {
	value, err := h.consentCodec.Encode(consentCookieName, consent)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     consentCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.consentSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   consentCookieMaxAge,
	})
	return nil
}
