package userrole

import (
	"github.com/societyhq/societyhub/internal/userrole/repository"
	"github.com/societyhq/societyhub/internal/userrole/service"
	"go.uber.org/fx"
)

var Module = fx.Module("userrole.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
