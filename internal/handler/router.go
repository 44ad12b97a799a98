package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker      HealthChecker
	TokenVerifier      middleware.TokenVerifier
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	Metrics            metrics.MetricsCollector
	MetricsHandler     http.Handler
	Logger             *slog.Logger

	AuthService      AuthServiceInterface
	UserService      UserServiceInterface
	WorkspaceService WorkspaceServiceInterface
	ProjectService   ProjectServiceInterface
	IssueService     IssueServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// /api/v1/auth/* はクライアントIP単位のレート制限のみを適用し、
// それ以外の/api/v1配下はBearer認証とユーザー単位のレート制限を適用する。
// deps.MetricsHandlerがnilの場合、/metricsは公開しない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	m := deps.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(m))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:    model.ErrCodeNotFound,
			Message: "Route not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, &model.APIError{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		})
	})

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	wsHandler := NewWorkspaceHandler(deps.WorkspaceService)
	projectHandler := NewProjectHandler(deps.ProjectService)
	issueHandler := NewIssueHandler(deps.IssueService)

	r.Route("/api/v1", func(r chi.Router) {
		// --- 認証不要のルート ---
		r.Route("/auth", func(r chi.Router) {
			r.Use(deps.RateLimiter.AuthMiddleware())

			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Post("/password/reset/request", authHandler.RequestPasswordReset)
			r.Post("/password/reset/complete", authHandler.CompletePasswordReset)
		})

		// --- 認証が必要なルート ---
		// ミドルウェアスタック: Auth → RateLimit(General)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			// ユーザー管理
			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userHandler.Me)
				r.Put("/", userHandler.UpdateProfile)
				r.Delete("/", userHandler.Withdraw)
				r.Put("/password", userHandler.ChangePassword)
			})

			// ワークスペース管理
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", wsHandler.List)
				r.Post("/", wsHandler.Create)

				r.Route("/{workspaceId}", func(r chi.Router) {
					r.Get("/", wsHandler.Get)
					r.Put("/", wsHandler.Update)
					r.Delete("/", wsHandler.Delete)

					r.Route("/projects", func(r chi.Router) {
						r.Get("/", projectHandler.List)
						r.Post("/", projectHandler.Create)
						r.Get("/{projectId}", projectHandler.Get)
						r.Put("/{projectId}", projectHandler.Update)
						r.Delete("/{projectId}", projectHandler.Delete)
					})

					r.Route("/issues", func(r chi.Router) {
						r.Get("/", issueHandler.List)
						r.Post("/", issueHandler.Create)
						r.Get("/{issueId}", issueHandler.Get)
						r.Put("/{issueId}", issueHandler.Update)
						r.Delete("/{issueId}", issueHandler.Delete)
					})
				})
			})
		})
	})

	return r
}
