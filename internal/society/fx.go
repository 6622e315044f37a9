package society

import (
	"github.com/societyhq/societyhub/internal/society/repository"
	"github.com/societyhq/societyhub/internal/society/service"
	"go.uber.org/fx"
)

var Module = fx.Module("society.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
