package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/baumsteiger-allgaeu/site/api/internal/config"
	contactapp "github.com/baumsteiger-allgaeu/site/api/internal/contact/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/infrastructure/catalog"
	mongodoc "github.com/baumsteiger-allgaeu/site/api/internal/infrastructure/mongo"
	adminhttp "github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/admin"
	commonhttp "github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/common"
	publichttp "github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/public"
	statichttp "github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/static"
	siteapp "github.com/baumsteiger-allgaeu/site/api/internal/site/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
// MongoDB は任意で、未設定の場合は送信失敗記録と管理 API を無効にして起動する。
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	addr           string
	allowedOrigins []string
	adminJWT       config.JWTConfig
	publicHandler  *publichttp.Handler
	adminHandler   *adminhttp.Handler
	staticHandler  http.Handler
}

// Run はHTTPサーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// Router はミドルウェアと Public/Admin/静的ファイルのルーティングを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Route("/api", func(r chi.Router) {
		s.publicHandler.Register(r)
		r.NotFound(s.publicHandler.NotFound())
	})
	if s.adminHandler != nil {
		router.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware)
			s.adminHandler.Register(r)
		})
	}
	if s.staticHandler != nil {
		router.NotFound(s.staticHandler.ServeHTTP)
	}
	return router
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,Accept-Language")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB が設定されている場合のみ疎通確認を行う。
// ドメインの状態ではなくインフラ状態のみを返す設計。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if s.client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				s.logger.Printf("ヘルスチェックで MongoDB への疎通に失敗しました: %v", err)
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みオペレーターをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, map[string]string{"error": "Authorization ヘッダーがありません"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, map[string]string{"error": "Bearer トークンを指定してください"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, map[string]string{"error": "アクセストークンが空です"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		ctx := commonhttp.ContextWithAdmin(r.Context(), commonhttp.AdminUser{
			ID:   claims.Subject,
			Name: claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は HS256 署名と Issuer/Audience/Subject を検証する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	cfg := s.adminJWT
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return cfg.Secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}
	if cfg.Audience != "" && !contains(claims.Audience, cfg.Audience) {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}

	return claims, nil
}

// contains は Audience 等の検証で利用する単純な包含チェック。
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と任意の Mongo クライアント、SMTP リレーを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client, relay contactapp.Relay) *Server {
	var failures contactapp.FailedDeliveryRepository
	if client != nil && cfg.FailureLogEnabled() {
		repo := mongodoc.NewFailedDeliveryRepository(client.Database(cfg.MongoDatabase), cfg.FailedDeliveryCollection)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := repo.EnsureIndexes(ctx); err != nil {
			cfg.ServerLog.Printf("failed_deliveries のインデックス作成に失敗: %v", err)
		}
		cancel()
		failures = repo
	}
	return newServer(cfg, client, relay, failures)
}

func newServer(cfg config.Config, client *mongo.Client, relay contactapp.Relay, failures contactapp.FailedDeliveryRepository) *Server {
	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		adminJWT:       cfg.AdminJWT,
	}

	contactService := contactapp.NewContactService(contactapp.ContactServiceConfig{
		Logger:   cfg.ServerLog,
		Relay:    relay,
		Failures: failures,
		From:     contactapp.Mailbox{Name: cfg.MailFromName, Address: cfg.MailFromAddress},
		To:       cfg.MailTo,
	})
	srv.publicHandler = publichttp.NewHandler(publichttp.Config{
		Logger:  cfg.ServerLog,
		Contact: contactService,
		Catalog: siteapp.NewCatalogQueryService(catalog.NewStaticRepository()),
		// ダイヤルと SMTP 対話の合計上限。
		SendTimeout:    2 * cfg.SMTP.Timeout,
		ConsentHashKey: cfg.ConsentHashKey,
		ConsentSecure:  cfg.ConsentCookieSecure,
	})

	if cfg.AdminEnabled() && failures != nil {
		srv.adminHandler = adminhttp.NewHandler(adminhttp.Config{
			Logger:     cfg.ServerLog,
			Deliveries: contactapp.NewDeliveryService(failures),
		})
	} else if len(cfg.AdminJWT.Secret) > 0 {
		cfg.ServerLog.Printf("MONGO_URI が未設定のため管理 API は無効です")
	}

	if cfg.PublicDir != "" {
		srv.staticHandler = statichttp.NewHandler(statichttp.Config{
			Logger:  cfg.ServerLog,
			Dir:     cfg.PublicDir,
			SiteURL: cfg.SiteURL,
		})
	}

	return srv
}
