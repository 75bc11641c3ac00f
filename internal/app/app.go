package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/guard"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/seed"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

// Params groups what Build needs from the process.
type Params struct {
	Config       *config.Config
	Logger       *logger.Logger
	Registerer   prometheus.Registerer
	SessionStore session.Store
	Seed         *seed.Data
}

// Services is the fully wired service graph.
type Services struct {
	Guard         *guard.Guard
	Session       session.Service
	Catalog       catalog.Service
	Cart          cart.Service
	Orders        orders.Service
	Notifications notifications.Service
	Dashboard     dashboard.Service
	HTTPMetrics   *metrics.HTTPMetrics
}

// Build seeds the in-memory containers and wires every service.
func Build(params Params) (*Services, error) {
	cfg := params.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	data, err := dataset(cfg.Catalog, params.Seed)
	if err != nil {
		return nil, err
	}

	directory, err := users.NewDirectory(security.NewHasher(cfg.Password))
	if err != nil {
		return nil, fmt.Errorf("users directory: %w", err)
	}
	loaded, err := seed.Load(data, directory)
	if err != nil {
		return nil, err
	}

	domainMetrics := metrics.NewDomainMetrics(params.Registerer)

	notificationsSvc, err := notifications.NewService(notifications.ServiceParams{
		Products: catalog.NewReader(loaded.Catalog),
		Metrics:  domainMetrics,
		Logger:   logg,
	})
	if err != nil {
		return nil, fmt.Errorf("notifications service: %w", err)
	}
	data.SeedSubscriptions(notificationsSvc)

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Catalog:  loaded.Catalog,
		Listener: notificationsSvc,
		Metrics:  domainMetrics,
		Logger:   logg,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{Products: catalogSvc, Metrics: domainMetrics})
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}

	dashboardSvc, err := dashboard.NewService(dashboard.ServiceParams{
		Catalog:           catalogSvc,
		Orders:            loaded.Orders,
		Subscriptions:     notificationsSvc,
		LowStockThreshold: cfg.Catalog.LowStockThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard service: %w", err)
	}

	store := params.SessionStore
	if store == nil {
		store = session.NewMemoryStore(cfg.Session.TTL, nil)
	}
	sessionSvc, err := session.NewService(session.ServiceParams{
		Store:    store,
		Accounts: directory,
		JWT:      cfg.JWT,
		Latency:  cfg.Auth.MockLatency,
		Metrics:  domainMetrics,
		Logger:   logg,
	})
	if err != nil {
		return nil, fmt.Errorf("session service: %w", err)
	}

	return &Services{
		Guard:         guard.New(),
		Session:       sessionSvc,
		Catalog:       catalogSvc,
		Cart:          cartSvc,
		Orders:        loaded.Orders,
		Notifications: notificationsSvc,
		Dashboard:     dashboardSvc,
		HTTPMetrics:   metrics.NewHTTPMetrics(params.Registerer),
	}, nil
}

func dataset(cfg config.CatalogConfig, override *seed.Data) (seed.Data, error) {
	switch {
	case override != nil:
		return *override, nil
	case cfg.SeedFile != "":
		return seed.LoadFile(cfg.SeedFile)
	default:
		return seed.Default(cfg.SeedProductCount), nil
	}
}
