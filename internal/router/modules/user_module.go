package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/timewise-app/timewise-api/internal/interface/http"
	"github.com/timewise-app/timewise-api/internal/interface/middleware"
	"github.com/timewise-app/timewise-api/pkg/helpers"
)

// UserModule wires the user directory endpoints.
// Protected: GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/users/search", m.Handler.Search)
	}
}
