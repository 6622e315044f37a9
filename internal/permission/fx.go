package permission

import (
	"github.com/societyhq/societyhub/internal/permission/repository"
	"github.com/societyhq/societyhub/internal/permission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("permission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
