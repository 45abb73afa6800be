package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/internal/container"
	"github.com/oksasatya/storefront/internal/interface/middleware"
)

// Guard builds the per-route middleware shared by modules.
type Guard struct {
	c *container.Container
}

func NewGuard(c *container.Container) *Guard {
	return &Guard{c: c}
}

// Session requires a logged-in user with a live session.
func (g *Guard) Session() gin.HandlerFunc {
	return middleware.Auth(g.c.Sessions, g.c.JWT)
}

// CSRF rejects state-changing requests without the session token.
func (g *Guard) CSRF() gin.HandlerFunc {
	return middleware.CSRF(g.c.Logger)
}

// HTTPS redirects to https when REQUIRE_HTTPS is on.
func (g *Guard) HTTPS() gin.HandlerFunc {
	return middleware.RequireHTTPS(g.c.Cfg.RequireHTTPS)
}

func (g *Guard) LimitIP(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(g.c.Redis, max, window, middleware.KeyByIP(), nil)
}

func (g *Guard) LimitIPPath(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(g.c.Redis, max, window, middleware.KeyByIPAndPath(), nil)
}

func (g *Guard) LimitUser(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(g.c.Redis, max, window, middleware.KeyByUserID(), nil)
}

// LimitPublic limits by IP but lets private-range clients through.
func (g *Guard) LimitPublic(max int, window time.Duration) gin.HandlerFunc {
	return middleware.RateLimit(g.c.Redis, max, window, middleware.KeyByIP(), middleware.AllowPrivateIP())
}
