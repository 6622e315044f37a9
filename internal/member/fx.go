package member

import (
	"github.com/societyhq/societyhub/internal/member/repository"
	"github.com/societyhq/societyhub/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
