package payment

import (
	"github.com/societyhq/societyhub/internal/payment/repository"
	"github.com/societyhq/societyhub/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
