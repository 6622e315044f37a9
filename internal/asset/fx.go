package asset

import (
	"github.com/societyhq/societyhub/internal/asset/repository"
	"github.com/societyhq/societyhub/internal/asset/service"
	"go.uber.org/fx"
)

var Module = fx.Module("asset.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
