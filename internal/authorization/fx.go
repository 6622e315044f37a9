package authorization

import (
	"github.com/societyhq/societyhub/internal/authorization/repository"
	"github.com/societyhq/societyhub/internal/authorization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("authorization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
