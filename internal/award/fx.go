package award

import (
	"github.com/smallbiznis/beerduel/internal/award/repository"
	"github.com/smallbiznis/beerduel/internal/award/service"
	"go.uber.org/fx"
)

var Module = fx.Module("award.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
