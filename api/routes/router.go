package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/app"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Services *app.Services
	Gatherer prometheus.Gatherer
	Pingers  map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	svcs := deps.Services
	if svcs == nil {
		svcs = &app.Services{}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
		middleware.Logging(logg, svcs.HTTPMetrics),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "method not allowed"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	anyRole := []enums.Role{enums.RoleBuyer, enums.RoleVendor}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(svcs.Session, logg))

		r.Post("/session", controllers.CreateSession(svcs.Session, logg))
		r.Get("/navigation", controllers.Navigate(svcs.Guard, svcs.Session, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(svcs.Session, logg))
			r.Post("/register", controllers.AuthRegister(svcs.Session, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession(logg))
				r.Post("/logout", controllers.AuthLogout(svcs.Session, logg))
				r.Get("/me", controllers.SessionMe(logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, anyRole...))
			r.Get("/dashboard", controllers.DashboardSummary(svcs.Dashboard, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/subscriptions", controllers.ListSubscriptions(svcs.Notifications, logg))
				r.Post("/subscriptions/toggle", controllers.ToggleSubscription(svcs.Notifications, logg))
				r.Delete("/subscriptions/{id}", controllers.RemoveSubscription(svcs.Notifications, logg))
				r.Get("/alerts", controllers.ListAlerts(svcs.Notifications, logg))
				r.Post("/alerts/{id}/read", controllers.MarkAlertRead(svcs.Notifications, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, anyRole...))
				r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
				r.Get("/facets", controllers.ProductFacets(svcs.Catalog, logg))
				r.Get("/{id}", controllers.GetProduct(svcs.Catalog, logg))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.RoleVendor))
				r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
				r.Put("/{id}", controllers.ReplaceProduct(svcs.Catalog, logg))
				r.Patch("/{id}/price-stock", controllers.EditProductPriceStock(svcs.Catalog, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleBuyer))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateQuantity(svcs.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
			})
			r.Get("/orders", controllers.ListOrders(svcs.Orders, logg))
		})
	})

	return r
}
