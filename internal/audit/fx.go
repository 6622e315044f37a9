package audit

import (
	"github.com/societyhq/societyhub/internal/audit/repository"
	"github.com/societyhq/societyhub/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
