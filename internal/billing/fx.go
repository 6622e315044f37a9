package billing

import (
	"github.com/societyhq/societyhub/internal/billing/repository"
	"github.com/societyhq/societyhub/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
