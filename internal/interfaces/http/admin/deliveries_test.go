package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

type memoryDeliveries struct {
	mu    sync.Mutex
	items []domain.FailedDelivery
	err   error
	last  contactapp.Paging
}

func (m *memoryDeliveries) Record(_ context.Context, d *domain.FailedDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *d)
	return nil
}

func (m *memoryDeliveries) Find(_ context.Context, filter contactapp.DeliveryFilter, paging contactapp.Paging) ([]domain.FailedDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = paging
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.FailedDelivery{}
	for _, d := range m.items {
		if filter.Status == "" || d.Status == filter.Status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memoryDeliveries) FindByID(_ context.Context, id string) (*domain.FailedDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			found := m.items[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memoryDeliveries) UpdateStatus(_ context.Context, id string, status domain.DeliveryStatus, at time.Time) (*domain.FailedDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			m.items[i].ResolvedAt = nil
			if status == domain.DeliveryResolved {
				resolved := at
				m.items[i].ResolvedAt = &resolved
			}
			found := m.items[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func seededRepo() *memoryDeliveries {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &memoryDeliveries{items: []domain.FailedDelivery{
		{
			ID:         "a1",
			Submission: domain.Submission{Name: "Anna Muster", Email: "anna@example.de", Message: "Bitte um Rückruf"},
			Error:      "smtp send: connection refused",
			Status:     domain.DeliveryPending,
			CreatedAt:  created,
		},
		{
			ID:         "b2",
			Submission: domain.Submission{Name: "Bernd", Email: "bernd@example.de", Message: "Angebot"},
			Error:      "smtp send: timeout",
			Status:     domain.DeliveryResolved,
			CreatedAt:  created.Add(-time.Hour),
		},
	}}
}

func newAdminRouter(repo *memoryDeliveries) http.Handler {
	h := NewHandler(Config{
		Logger:     log.New(io.Discard, "", 0),
		Deliveries: contactapp.NewDeliveryService(repo),
	})
	r := chi.NewRouter()
	r.Route("/admin", func(admin chi.Router) {
		h.Register(admin)
	})
	return r
}

func TestDeliveryListFiltersByStatus(t *testing.T) {
	repo := seededRepo()
	router := newAdminRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries?status=pending&limit=10&page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp deliveryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "a1", resp.Items[0].ID)
	assert.Equal(t, "Anna Muster", resp.Items[0].Name)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, contactapp.Paging{Page: 2, Limit: 10}, repo.last)
}

func TestDeliveryListEchoesClampedPaging(t *testing.T) {
	repo := seededRepo()

	rec := httptest.NewRecorder()
	newAdminRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries?limit=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp deliveryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
	assert.Equal(t, contactapp.Paging{Page: 1, Limit: 50}, repo.last)
}

func TestDeliveryListRejectsUnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	newAdminRouter(seededRepo()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries?status=archived", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryListStoreFailure(t *testing.T) {
	repo := seededRepo()
	repo.err = errors.New("server selection timeout")

	rec := httptest.NewRecorder()
	newAdminRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "server selection")
}

func TestDeliveryDetail(t *testing.T) {
	router := newAdminRouter(seededRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries/b2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp deliveryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bernd@example.de", resp.Email)
	assert.Equal(t, "resolved", resp.Status)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries/zz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeliveryResolve(t *testing.T) {
	repo := seededRepo()
	router := newAdminRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/admin/deliveries/a1", strings.NewReader(`{"status":"resolved"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp deliveryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "resolved", resp.Status)
	require.NotNil(t, resp.ResolvedAt)
	assert.WithinDuration(t, time.Now(), *resp.ResolvedAt, time.Minute)
}

func TestDeliveryUpdateValidation(t *testing.T) {
	router := newAdminRouter(seededRepo())

	for _, body := range []string{`{"status":"done"}`, `{"state":"resolved"}`, `nope`} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/deliveries/a1", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/deliveries/zz", strings.NewReader(`{"status":"pending"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
