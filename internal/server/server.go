package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	awarddomain "github.com/smallbiznis/beerduel/internal/award/domain"
	battledomain "github.com/smallbiznis/beerduel/internal/battle/domain"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/config"
	obsmiddleware "github.com/smallbiznis/beerduel/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/beerduel/internal/observability/metrics"
	obstracing "github.com/smallbiznis/beerduel/internal/observability/tracing"
	rankingdomain "github.com/smallbiznis/beerduel/internal/ranking/domain"
	"github.com/smallbiznis/beerduel/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	gin.SetMode(cfg.Mode)
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	cycle      *clock.Cycle
	engineCfg  *config.EngineConfigHolder
	battleSvc  battledomain.Service
	awardSvc   awarddomain.Service
	rankingSvc rankingdomain.Service
	catalogSvc catalogdomain.Service
	limiter    *ratelimit.VoteLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Cycle      *clock.Cycle
	EngineCfg  *config.EngineConfigHolder
	BattleSvc  battledomain.Service
	AwardSvc   awarddomain.Service
	RankingSvc rankingdomain.Service
	CatalogSvc catalogdomain.Service
	Limiter    *ratelimit.VoteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		cycle:      p.Cycle,
		engineCfg:  p.EngineCfg,
		battleSvc:  p.BattleSvc,
		awardSvc:   p.AwardSvc,
		rankingSvc: p.RankingSvc,
		catalogSvc: p.CatalogSvc,
		limiter:    p.Limiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Battles --------
	api.GET("/battles/today", s.GetTodayBattle)
	api.GET("/battles/:date", s.GetBattleByDate)
	api.POST("/battles/today/votes", s.VoteRateLimit(), s.CastVote)

	// -------- Leaderboard --------
	api.GET("/leaderboard", s.GetLeaderboard)

	// -------- Awards --------
	api.GET("/awards/current", s.GetCurrentAward)
	api.GET("/awards/:week", s.GetAwardByWeek)

	// -------- Items --------
	api.GET("/items", s.ListItems)
	api.GET("/items/:id", s.GetItemByID)
}
