package router

import (
	"github.com/oksasatya/storefront/internal/container"
	handlers "github.com/oksasatya/storefront/internal/interface/http"
	"github.com/oksasatya/storefront/internal/router/modules"
)

// InitModules builds handlers from the container and registers every
// feature module. Call once during startup before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	guard := modules.NewGuard(c)

	authH := handlers.NewAuthHandler(c.Auth, c.Logger, c.Cfg.CookieDomain, c.Cfg.CookieSecure)
	userH := handlers.NewUserHandler(c.Auth, c.Logger)
	catalogH := handlers.NewCatalogHandler(c.Catalog, c.Logger)
	cartH := handlers.NewCartHandler(c.Cart, c.Logger)
	checkoutH := handlers.NewCheckoutHandler(c.Checkout, c.Order, c.Logger)

	r.Add(modules.NewAuthModule(authH, guard))
	r.Add(modules.NewUserModule(userH, guard))
	r.Add(modules.NewCatalogModule(catalogH, guard))
	r.Add(modules.NewCartModule(cartH, guard))
	r.Add(modules.NewCheckoutModule(checkoutH, guard))
	if c.Cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(guard))
	}
}
