package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
	"github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/common"
)

func (h *Handler) deliveryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var filter contactapp.DeliveryFilter
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status, err := domain.ParseDeliveryStatus(raw)
			if err != nil {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
				return
			}
			filter.Status = status
		}
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultDeliveryPageSize)
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		paging := contactapp.Paging{Page: page, Limit: limit}.Normalize()
		deliveries, err := h.deliveries.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("admin delivery list fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "送信失敗一覧の取得に失敗しました"})
			return
		}

		items := make([]deliveryResponse, 0, len(deliveries))
		for _, d := range deliveries {
			items = append(items, deliveryDomainToResponse(d))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, deliveryListResponse{Items: items, Page: paging.Page, Limit: paging.Limit})
	}
}

func (h *Handler) deliveryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "IDが指定されていません"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		delivery, err := h.deliveries.Detail(ctx, idParam)
		if err != nil {
			h.writeLookupError(w, idParam, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, deliveryDomainToResponse(*delivery))
	}
}

func (h *Handler) deliveryUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "IDが指定されていません"})
			return
		}

		defer r.Body.Close()
		var req deliveryUpdateRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxAdminRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}
		status, err := domain.ParseDeliveryStatus(req.Status)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		delivery, err := h.deliveries.SetStatus(ctx, idParam, status)
		if err != nil {
			h.writeLookupError(w, idParam, err)
			return
		}
		if user, ok := common.AdminFromContext(r.Context()); ok {
			h.logger.Printf("delivery %s marked %s by %s", idParam, status, user.ID)
		}
		common.WriteJSON(h.logger, w, http.StatusOK, deliveryDomainToResponse(*delivery))
	}
}

func (h *Handler) writeLookupError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "送信失敗記録が見つかりません"})
		return
	}
	h.logger.Printf("admin delivery lookup failed id=%s err=%v", id, err)
	common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "送信失敗記録の取得に失敗しました"})
}
