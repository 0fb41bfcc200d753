package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/award"
	"github.com/smallbiznis/beerduel/internal/battle"
	"github.com/smallbiznis/beerduel/internal/catalog"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/config"
	"github.com/smallbiznis/beerduel/internal/migration"
	"github.com/smallbiznis/beerduel/internal/observability"
	"github.com/smallbiznis/beerduel/internal/ranking"
	"github.com/smallbiznis/beerduel/internal/ratelimit"
	"github.com/smallbiznis/beerduel/internal/scheduler"
	"github.com/smallbiznis/beerduel/internal/server"
	"github.com/smallbiznis/beerduel/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		catalog.Module,
		battle.Module,
		award.Module,
		ranking.Module,
		ratelimit.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
