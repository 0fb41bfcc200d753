package migration

import (
	awarddomain "github.com/smallbiznis/beerduel/internal/award/domain"
	battledomain "github.com/smallbiznis/beerduel/internal/battle/domain"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	"github.com/smallbiznis/beerduel/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql (local and test setups) derive the schema from the
		// models; the versioned SQL path is postgres only.
		return conn.AutoMigrate(
			&catalogdomain.Item{},
			&battledomain.Battle{},
			&battledomain.DailyVote{},
			&awarddomain.WeeklyAward{},
		)
	}),
)
