package visitor

import (
	"github.com/societyhq/societyhub/internal/visitor/repository"
	"github.com/societyhq/societyhub/internal/visitor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("visitor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
