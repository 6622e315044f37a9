package subscription

import (
	"github.com/societyhq/societyhub/internal/subscription/repository"
	"github.com/societyhq/societyhub/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
