package router

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/api"
	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/container"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/events"
	"github.com/oksasatya/go-account-service/internal/infrastructure/cache"
	"github.com/oksasatya/go-account-service/internal/infrastructure/directory"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/router/modules"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

type UserModuleDeps struct {
	Repo    repository.UserRepository
	Service *application.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := cache.Wrap(container.GetUserStore(), container.GetRedis(), cfg.UserCacheTTL, logger)

	var pub events.Publisher = events.Nop{}
	if p := container.GetRabbitPub(); p != nil {
		pub = events.NewRabbitPublisher(p)
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	service := application.NewService(
		repo,
		container.GetJWT(),
		helpers.NewPasswordHasher(cost),
		pub,
		directory.New(container.GetES(), cfg.ESUsersIndex, logger),
		logger,
	)

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handlers.NewUserHandler(service, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(ctx context.Context, r *Registry) error {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT()))

	docs, err := modules.NewDocsModule(ctx, api.OpenAPI)
	if err != nil {
		return err
	}
	r.Add(docs)

	cfg := container.GetConfig()
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	ops := modules.NewOpsModule(handlers.NewHealthHandler(userDeps.Repo), nil)
	if reg := container.GetMetrics(); reg != nil && cfg.DebugMetricsEnabled {
		ops.Gatherer = reg
	}
	r.AddRoot(ops)
	return nil
}
