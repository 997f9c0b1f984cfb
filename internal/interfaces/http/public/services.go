package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/common"
	sitedomain "github.com/baumsteiger-allgaeu/site/api/internal/site/domain"
)

func (h *Handler) serviceListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		services, err := h.catalog.List(ctx)
		if err != nil {
			h.logger.Printf("サービス一覧の取得に失敗: %v", err)
			writeError(h.logger, w, http.StatusInternalServerError, "catalog unavailable")
			return
		}

		items := make([]serviceResponse, 0, len(services))
		for _, svc := range services {
			items = append(items, buildServiceResponse(svc))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, serviceListResponse{Items: items})
	}
}

func (h *Handler) serviceDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		svc, err := h.catalog.Detail(ctx, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, sitedomain.ErrServiceNotFound) {
				writeError(h.logger, w, http.StatusNotFound, messagesFor(common.PreferredLanguage(r)).serviceNotFound)
				return
			}
			h.logger.Printf("サービス詳細の取得に失敗: %v", err)
			writeError(h.logger, w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildServiceResponse(*svc))
	}
}

func (h *Handler) companyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := h.catalog.Company(r.Context())
		if err != nil {
			h.logger.Printf("会社情報の取得に失敗: %v", err)
			writeError(h.logger, w, http.StatusInternalServerError, "catalog unavailable")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildCompanyResponse(company))
	}
}
