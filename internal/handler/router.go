package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ahmadqo/campus-console/docs" // swagger spec
	appMiddleware "github.com/ahmadqo/campus-console/internal/middleware"
	"github.com/ahmadqo/campus-console/internal/response"
)

// RouterConfig carries the settings the router needs from config.Config.
type RouterConfig struct {
	JWTSecret   string
	CSRFKey     []byte
	Secure      bool
	PublicURL   string
	ExtraOrigin []string
}

type Router struct {
	authHandler     *AuthHandler
	pageHandler     *PageHandler
	resourceHandler *ResourceHandler
	cfg             RouterConfig
}

func NewRouter(
	authHandler *AuthHandler,
	pageHandler *PageHandler,
	resourceHandler *ResourceHandler,
	cfg RouterConfig,
) *Router {
	return &Router{
		authHandler:     authHandler,
		pageHandler:     pageHandler,
		resourceHandler: resourceHandler,
		cfg:             cfg,
	}
}

func (ro *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server is running", map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	origins := append([]string{"http://localhost:3000", ro.cfg.PublicURL}, ro.cfg.ExtraOrigin...)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// ── Public ───────────────────────────────────────
		r.Post("/auth/login", ro.authHandler.Login)
		r.Get("/verify/results/{id}", ro.resourceHandler.Verify)

		// ── Protected ────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.cfg.JWTSecret))

			r.Get("/auth/me", ro.authHandler.Me)

			r.Route("/operators", func(r chi.Router) {
				r.Use(appMiddleware.RequireRole("admin"))
				r.Get("/", ro.authHandler.Operators)
				r.Post("/", ro.authHandler.Register)
				r.Patch("/{id}/active", ro.authHandler.SetActive)
			})

			r.Route("/resources", func(r chi.Router) {
				r.Get("/", ro.resourceHandler.Catalog)
				r.Get("/{resource}", ro.resourceHandler.List)
				r.Get("/{resource}/new", ro.resourceHandler.Draft)
				r.Post("/{resource}/derive", ro.resourceHandler.Derive)
				r.Get("/{resource}/{id}", ro.resourceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireWriter)
					r.Post("/{resource}", ro.resourceHandler.Create)
					r.Put("/{resource}/{id}", ro.resourceHandler.Update)
					r.Delete("/{resource}/{id}", ro.resourceHandler.Delete)
				})
			})
		})
	})

	// ── HTML console ─────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.PlaintextHTTP)
		r.Use(csrf.Protect(ro.cfg.CSRFKey,
			csrf.Secure(ro.cfg.Secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
		))

		r.Get("/login", ro.authHandler.LoginPage)
		r.Post("/login", ro.authHandler.LoginSubmit)
		r.Post("/logout", ro.authHandler.Logout)
		r.Get("/verify/results/{id}", ro.pageHandler.VerifyResult)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireSession(ro.cfg.JWTSecret))

			r.Get("/", ro.pageHandler.Dashboard)

			r.Route("/pages", func(r chi.Router) {
				r.Get("/teachers/{id}/documents", ro.pageHandler.Documents)
				r.Get("/teachers/{id}/documents/{docID}", ro.pageHandler.DownloadDocument)
				r.Get("/teachers/{id}/pdf", ro.pageHandler.TeacherPDF)
				r.Get("/exam-results/{id}/pdf", ro.pageHandler.ResultPDF)
				r.Get("/media/{slot}/{id}", ro.pageHandler.Media)
				r.Get("/{resource}", ro.pageHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireWriter)
					r.Post("/teachers/{id}/documents", ro.pageHandler.UploadDocument)
					r.Post("/teachers/{id}/documents/{docID}/delete", ro.pageHandler.DeleteDocument)
					r.Post("/media/{slot}/{id}", ro.pageHandler.UploadMedia)
					r.Get("/{resource}/new", ro.pageHandler.New)
					r.Post("/{resource}/save", ro.pageHandler.Save)
					r.Get("/{resource}/{id}/edit", ro.pageHandler.Edit)
					r.Get("/{resource}/{id}/delete", ro.pageHandler.ConfirmDelete)
					r.Post("/{resource}/{id}/delete", ro.pageHandler.Delete)
				})
			})
		})
	})

	return r
}
