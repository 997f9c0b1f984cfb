package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
	"github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/common"
)

var errNotAnObject = errors.New("request body is not a JSON object")

func (h *Handler) contactHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := common.PreferredLanguage(r)
		msgs := messagesFor(lang)

		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Printf("contact handler panic: %v", rec)
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, contactResponse{Message: msgs.failed})
			}
		}()

		defer r.Body.Close()
		raw, err := decodeContactRequest(io.LimitReader(r.Body, common.MaxContactRequestBody))
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, contactResponse{Message: msgs.invalidRequest})
			return
		}

		result := domain.Validate(raw, lang)
		submission, ok := result.Submission()
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, contactResponse{
				Message: msgs.validationError,
				Errors:  result.Errors(),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.sendTimeout)
		defer cancel()

		err = h.contact.Submit(ctx, contactapp.SubmitContactCommand{
			Submission: submission,
			RemoteIP:   r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		})
		if err != nil {
			if errors.Is(err, contactapp.ErrRelayFailure) {
				h.logger.Printf("問い合わせメールの送信に失敗: %v", err)
			} else {
				h.logger.Printf("問い合わせの処理に失敗: %v", err)
			}
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, contactResponse{Message: msgs.failed})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, contactResponse{Success: true, Message: msgs.sent})
	}
}

// decodeContactRequest reads one JSON object. Fields with the wrong type are
// reported as absent so validation can name them; a numeric phone is kept.
func decodeContactRequest(body io.Reader) (domain.RawSubmission, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return domain.RawSubmission{}, err
	}
	fields, ok := payload.(map[string]any)
	if !ok {
		return domain.RawSubmission{}, errNotAnObject
	}

	return domain.RawSubmission{
		Name:    stringField(fields[domain.FieldName]),
		Email:   stringField(fields[domain.FieldEmail]),
		Phone:   phoneField(fields[domain.FieldPhone]),
		Message: stringField(fields[domain.FieldMessage]),
	}, nil
}

func stringField(value any) *string {
	if s, ok := value.(string); ok {
		return &s
	}
	return nil
}

func phoneField(value any) *string {
	switch v := value.(type) {
	case string:
		return &v
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return nil
		}
		s := v.String()
		return &s
	}
	return nil
}
