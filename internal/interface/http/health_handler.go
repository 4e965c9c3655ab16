package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/timewise-app/timewise-api/pkg/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Check handles GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	response.Health(c)
}
