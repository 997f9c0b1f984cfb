package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baumsteiger-allgaeu/site/api/internal/config"
	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

var testSecret = []byte("admin-secret-for-tests")

type stubRelay struct {
	mu   sync.Mutex
	sent int
}

func (r *stubRelay) Send(context.Context, contactapp.OutboundMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent++
	return nil
}

type stubFailures struct{}

func (stubFailures) Record(context.Context, *domain.FailedDelivery) error { return nil }

func (stubFailures) Find(context.Context, contactapp.DeliveryFilter, contactapp.Paging) ([]domain.FailedDelivery, error) {
	return []domain.FailedDelivery{}, nil
}

func (stubFailures) FindByID(context.Context, string) (*domain.FailedDelivery, error) {
	return nil, mongo.ErrNoDocuments
}

func (stubFailures) UpdateStatus(context.Context, string, domain.DeliveryStatus, time.Time) (*domain.FailedDelivery, error) {
	return nil, mongo.ErrNoDocuments
}

func testConfig() config.Config {
	return config.Config{
		Addr:            ":0",
		SMTP:            config.SMTPConfig{Host: "smtp.example.de", Port: 587, Timeout: time.Second},
		MailFromAddress: "website@example.de",
		MailFromName:    "Baumsteiger Website",
		MailTo:          "buero@example.de",
		AllowedOrigins:  []string{"https://www.baumsteiger-allgaeu.de"},
		ConsentHashKey:  []byte("0123456789abcdef0123456789abcdef"),
		ServerLog:       log.New(io.Discard, "", 0),
	}
}

func adminConfig() config.Config {
	cfg := testConfig()
	cfg.MongoURI = "mongodb://localhost:27017"
	cfg.AdminJWT = config.JWTConfig{Issuer: "baumsteiger-admin", Audience: "baumsteiger-api", Secret: testSecret}
	return cfg
}

func signToken(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() *authClaims {
	return &authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "baumsteiger-admin",
			Subject:   "raphael",
			Audience:  jwt.ClaimStrings{"baumsteiger-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Raphael",
	}
}

func TestHealthWithoutMongo(t *testing.T) {
	srv := newServer(testConfig(), nil, &stubRelay{}, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthDegradedHidesPingError(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1/").
		SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	srv := newServer(testConfig(), client, &stubRelay{}, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded"}`, rec.Body.String())
}

func TestContactRouteIsMounted(t *testing.T) {
	relay := &stubRelay{}
	srv := newServer(testConfig(), nil, relay, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Anna Muster","email":"anna@example.de","message":"Testnachricht"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, relay.sent)
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	srv := newServer(testConfig(), nil, &stubRelay{}, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAdminNotMountedWithoutStore(t *testing.T) {
	cfg := testConfig()
	cfg.AdminJWT.Secret = testSecret
	srv := newServer(cfg, nil, &stubRelay{}, nil)
	assert.Nil(t, srv.adminHandler)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/deliveries", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	srv := newServer(adminConfig(), nil, &stubRelay{}, stubFailures{})
	router := srv.Router()

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not.a.jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/deliveries", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/deliveries", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(), jwt.SigningMethodHS256, testSecret))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"page":1,"limit":50}`, rec.Body.String())
}

func TestParseAuthToken(t *testing.T) {
	srv := newServer(adminConfig(), nil, &stubRelay{}, stubFailures{})

	claims, err := srv.parseAuthToken(signToken(t, validClaims(), jwt.SigningMethodHS256, testSecret))
	require.NoError(t, err)
	assert.Equal(t, "raphael", claims.Subject)
	assert.Equal(t, "Raphael", claims.Name)

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"other-api"}
	noSubject := validClaims()
	noSubject.Subject = ""
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	rejected := map[string]string{
		"wrong secret":   signToken(t, validClaims(), jwt.SigningMethodHS256, []byte("other-secret")),
		"wrong method":   signToken(t, validClaims(), jwt.SigningMethodHS512, testSecret),
		"wrong issuer":   signToken(t, wrongIssuer, jwt.SigningMethodHS256, testSecret),
		"wrong audience": signToken(t, wrongAudience, jwt.SigningMethodHS256, testSecret),
		"no subject":     signToken(t, noSubject, jwt.SigningMethodHS256, testSecret),
		"expired":        signToken(t, expired, jwt.SigningMethodHS256, testSecret),
	}
	for name, token := range rejected {
		_, err := srv.parseAuthToken(token)
		assert.Error(t, err, name)
	}
}

func TestCORS(t *testing.T) {
	router := newServer(testConfig(), nil, &stubRelay{}, nil).Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://www.baumsteiger-allgaeu.de")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://www.baumsteiger-allgaeu.de", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Baumsteiger</h1>"), 0o644))

	cfg := testConfig()
	cfg.PublicDir = dir
	cfg.SiteURL = "https://www.baumsteiger-allgaeu.de"
	router := newServer(cfg, nil, &stubRelay{}, nil).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Baumsteiger")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}
