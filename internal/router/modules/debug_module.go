package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes expvar counters such as orders_placed.
type DebugModule struct {
	Guard *Guard
}

func NewDebugModule(g *Guard) *DebugModule { return &DebugModule{Guard: g} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", m.Guard.LimitPublic(120, time.Minute), gin.WrapH(expvar.Handler()))
}
