package battle

import (
	"github.com/smallbiznis/beerduel/internal/battle/repository"
	"github.com/smallbiznis/beerduel/internal/battle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("battle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
