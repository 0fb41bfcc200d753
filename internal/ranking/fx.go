package ranking

import (
	"github.com/smallbiznis/beerduel/internal/ranking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ranking.service",
	fx.Provide(service.New),
)
