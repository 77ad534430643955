package router

import (
	userapp "github.com/oksasatya/user-orders-api/internal/application"
	"github.com/oksasatya/user-orders-api/internal/container"
	repouser "github.com/oksasatya/user-orders-api/internal/domain/repository"
	"github.com/oksasatya/user-orders-api/internal/infrastructure/mongodb"
	handlers "github.com/oksasatya/user-orders-api/internal/interface/http"
	"github.com/oksasatya/user-orders-api/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := mongodb.NewUserRepository(container.GetMongoDB())

	service := userapp.NewService(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		cfg.BcryptCost,
		cfg.UserCacheTTL,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
