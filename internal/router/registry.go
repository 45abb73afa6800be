package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/pkg/response"
)

// Registry collects modules and API-wide middleware, then mounts them
// under /api in one pass.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Health mounts a liveness endpoint outside /api. Any failing check turns
// the response into 503 with the names of the failing dependencies.
func (r *Registry) Health(path string, checks map[string]HealthCheck) {
	r.Engine.GET(path, func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		down := []string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				down = append(down, name)
			}
		}
		if len(down) > 0 {
			response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", gin.H{"code": "unhealthy", "details": down})
			return
		}
		response.Success[any](c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
	})
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
