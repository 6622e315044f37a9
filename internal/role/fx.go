package role

import (
	"github.com/societyhq/societyhub/internal/role/repository"
	"github.com/societyhq/societyhub/internal/role/service"
	"go.uber.org/fx"
)

var Module = fx.Module("role.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
