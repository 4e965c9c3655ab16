package router

import (
	"github.com/timewise-app/timewise-api/internal/application"
	"github.com/timewise-app/timewise-api/internal/container"
	pginfra "github.com/timewise-app/timewise-api/internal/infrastructure/postgres"
	handlers "github.com/timewise-app/timewise-api/internal/interface/http"
	"github.com/timewise-app/timewise-api/internal/router/modules"
)

// InitModules builds the application modules from the container singletons
// and registers them with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.AppName,
		cfg.MailSendEnabled,
	)

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger())
	userHandler := handlers.NewUserHandler(svc, container.GetLogger())

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler()))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
}
