package handlers

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	Auth    *services.AuthService
	AuthH   *AuthHandler
	Product *ProductHandler
	Order   *OrderHandler
}

// NewDeps wires repos, services and handlers. Publisher and metrics are
// optional; pass nil in tests.
func NewDeps(db *sqlx.DB, cfg config.Config, pub *events.Publisher, m *metrics.StoreMetrics) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	catalogSvc := services.NewCatalogService(prodRepo)
	orderSvc := services.NewOrderService(prodRepo, orderRepo)
	orderSvc.Events = pub
	orderSvc.Metrics = m

	return &Deps{
		Auth:    authSvc,
		AuthH:   &AuthHandler{Auth: authSvc},
		Product: &ProductHandler{Catalog: catalogSvc},
		Order:   &OrderHandler{Orders: orderSvc},
	}
}
