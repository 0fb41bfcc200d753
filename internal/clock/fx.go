package clock

import (
	"fmt"
	"time"

	"github.com/smallbiznis/beerduel/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(
		func() Clock { return NewSystemClock() },
		NewCycleFromConfig,
	),
)

func NewCycleFromConfig(clk Clock, cfg config.Config) (*Cycle, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return NewCycle(clk, loc), nil
}
