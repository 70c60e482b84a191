package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-admin/internal/middleware"
	"storefront-admin/internal/security"
)

// RouterConfig collects everything the HTTP surface is built from.
type RouterConfig struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Orders    *OrderHandler
	Customers *CustomerHandler
	Pages     *Pages

	Sessions middleware.SessionReader
	Tokens   *security.TokenManager

	// Readiness dependencies. Leave Broker nil when events are disabled.
	Store  Pinger
	Broker Pinger

	AllowedOrigins []string
	OpenAPI        middleware.OpenAPIValidatorConfig
	AuthLimiter    *middleware.RateLimiter
	APILimiter     *middleware.RateLimiter
}

// NewRouter wires middleware and routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.Gate(cfg.Sessions))

	r.Get("/health", Health)
	r.Get("/health/ready", Ready(cfg.Store, cfg.Broker))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", cfg.Pages.Root)
	r.Get("/login", cfg.Pages.Login)
	r.Get("/dashboard", cfg.Pages.Dashboard)
	r.Get("/dashboard/*", cfg.Pages.Dashboard)
	r.Handle("/static/*", cfg.Pages.Static())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OpenAPIValidator(cfg.OpenAPI))

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthLimiter.Middleware())
			r.Post("/auth/login", cfg.Auth.Login)
		})

		r.Post("/auth/logout", cfg.Auth.Logout)
		r.Post("/logout", cfg.Auth.Logout)
		r.Get("/auth/user", cfg.Auth.User)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Sessions))
			r.Use(middleware.RequireAdmin)
			r.Use(cfg.APILimiter.Middleware())
			r.Use(middleware.CSRF(cfg.Tokens))

			r.Get("/products", cfg.Catalog.ListProducts)
			r.Get("/products/{id}", cfg.Catalog.GetProduct)
			r.Post("/create-product", cfg.Catalog.CreateProduct)
			r.Patch("/create-product", cfg.Catalog.UpdateProduct)
			r.Delete("/create-product", cfg.Catalog.DeleteProduct)

			r.Get("/categories", cfg.Catalog.ListCategories)
			r.Post("/categories", cfg.Catalog.CreateCategory)

			r.Get("/orders", cfg.Orders.List)
			r.Patch("/orders", cfg.Orders.UpdateShipment)
			r.Delete("/orders", cfg.Orders.Delete)
			r.Get("/orders/latest", cfg.Orders.Latest)
			r.Get("/revenue", cfg.Orders.Revenue)
			r.Get("/dashboard", cfg.Orders.Dashboard)

			r.Get("/customers", cfg.Customers.ListCustomers)
			r.Get("/reviews", cfg.Customers.ListReviews)
			r.Delete("/reviews", cfg.Customers.DeleteReview)
		})
	})

	return r
}
