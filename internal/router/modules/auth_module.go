package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/timewise-app/timewise-api/internal/interface/http"
	"github.com/timewise-app/timewise-api/internal/interface/middleware"
	"github.com/timewise-app/timewise-api/pkg/helpers"
)

// AuthModule wires the authentication endpoints.
// Public: POST /api/auth/login, POST /api/auth/register
// Protected: GET /api/auth/profile
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/register", m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth/profile", m.Handler.Profile)
	}
}
