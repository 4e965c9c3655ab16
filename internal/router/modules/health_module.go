package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/timewise-app/timewise-api/internal/interface/http"
)

// HealthModule wires GET /api/health.
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Check)
}
