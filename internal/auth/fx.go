package auth

import (
	"github.com/societyhq/societyhub/internal/auth/repository"
	"github.com/societyhq/societyhub/internal/auth/service"
	"github.com/societyhq/societyhub/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(token.NewIssuer),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
