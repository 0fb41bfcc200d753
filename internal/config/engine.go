package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EngineConfig holds the tunables of the daily battle engine. They live in
// engine.yml rather than env vars so operators can adjust them without a
// restart.
type EngineConfig struct {
	// RecentPairWindowDays bounds how far back pair-repetition avoidance
	// looks when selecting a new matchup.
	RecentPairWindowDays int `mapstructure:"recentPairWindowDays"`
	// TickInterval is the cadence of the rollover scheduler.
	TickInterval time.Duration `mapstructure:"tickInterval"`
	// JobTimeout bounds a single rollover tick.
	JobTimeout time.Duration `mapstructure:"jobTimeout"`
	// LeaderboardMaxLimit caps the leaderboard page size.
	LeaderboardMaxLimit int `mapstructure:"leaderboardMaxLimit"`
	// VoteRatePerMinute / VoteBurst shape the per-user vote rate limit.
	// The limit only guards against hammering; correctness comes from the
	// unique (user, day) constraint.
	VoteRatePerMinute float64 `mapstructure:"voteRatePerMinute"`
	VoteBurst         int     `mapstructure:"voteBurst"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RecentPairWindowDays: 7,
		TickInterval:         time.Minute,
		JobTimeout:           30 * time.Second,
		LeaderboardMaxLimit:  100,
		VoteRatePerMinute:    10,
		VoteBurst:            5,
	}
}

type EngineConfigHolder struct {
	current atomic.Value // holds EngineConfig
}

func NewEngineConfigHolder() (*EngineConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("engine")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/beerduel/config")
	v.AddConfigPath("/etc/beerduel")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BEERDUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultEngineConfig()
	v.SetDefault("engine.recentPairWindowDays", defaults.RecentPairWindowDays)
	v.SetDefault("engine.tickInterval", defaults.TickInterval)
	v.SetDefault("engine.jobTimeout", defaults.JobTimeout)
	v.SetDefault("engine.leaderboardMaxLimit", defaults.LeaderboardMaxLimit)
	v.SetDefault("engine.voteRatePerMinute", defaults.VoteRatePerMinute)
	v.SetDefault("engine.voteBurst", defaults.VoteBurst)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg EngineConfig
	if err := v.UnmarshalKey("engine", &cfg); err != nil {
		return nil, err
	}
	if err := validateEngineConfig(cfg); err != nil {
		return nil, err
	}

	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated EngineConfig
		if err := v.UnmarshalKey("engine", &updated); err != nil {
			log.Printf("[engine-config] reload failed: %v", err)
			return
		}
		if err := validateEngineConfig(updated); err != nil {
			log.Printf("[engine-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[engine-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticEngineConfigHolder wraps a fixed config with no file watching.
func NewStaticEngineConfigHolder(cfg EngineConfig) *EngineConfigHolder {
	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *EngineConfigHolder) Get() EngineConfig {
	return h.current.Load().(EngineConfig)
}

func validateEngineConfig(cfg EngineConfig) error {
	if cfg.RecentPairWindowDays < 0 {
		return errors.New("engine.recentPairWindowDays cannot be negative")
	}
	if cfg.TickInterval <= 0 {
		return errors.New("engine.tickInterval must be positive")
	}
	if cfg.JobTimeout <= 0 {
		return errors.New("engine.jobTimeout must be positive")
	}
	if cfg.LeaderboardMaxLimit <= 0 {
		return errors.New("engine.leaderboardMaxLimit must be positive")
	}
	return nil
}
