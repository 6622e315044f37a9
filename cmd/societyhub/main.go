package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/config"
	"github.com/societyhq/societyhub/internal/db"
	"github.com/societyhq/societyhub/internal/logger"
	"github.com/societyhq/societyhub/internal/migration"
	"github.com/societyhq/societyhub/internal/observability"
	"github.com/societyhq/societyhub/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
