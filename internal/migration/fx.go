package migration

import (
	"github.com/societyhq/societyhub/internal/config"
	"github.com/societyhq/societyhub/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		// The SQL migrations target Postgres. For the SQLite and MySQL
		// dialects the schema is managed out of band (tests AutoMigrate).
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			log.Warn("skipping embedded migrations for non-postgres dialect",
				zap.String("db_type", cfg.DBType))
		}

		if err := seed.EnsureSystemCatalog(conn); err != nil {
			return err
		}
		if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
			return seed.EnsureBootstrapAdmin(conn, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		}
		return nil
	}),
)
