package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/handler"
	"github.com/classgrid/classgrid-api/internal/middleware"
	"github.com/classgrid/classgrid-api/internal/service"
	"github.com/classgrid/classgrid-api/internal/store"
	"github.com/classgrid/classgrid-api/pkg/cache"
	"github.com/classgrid/classgrid-api/pkg/config"
	"github.com/classgrid/classgrid-api/pkg/database"
	"github.com/classgrid/classgrid-api/pkg/logger"
	corsmiddleware "github.com/classgrid/classgrid-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classgrid/classgrid-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	st, err := newStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init store", "driver", cfg.StoreDriver, "error", err)
	}

	if cfg.SeedData {
		if err := store.Seed(context.Background(), st); err != nil {
			logr.Sugar().Fatalw("failed to seed default data", "error", err)
		}
	}

	metrics := service.NewMetricsService()
	cacheSvc := newCacheService(cfg, metrics, logr)
	validate := validator.New()

	scheduleSvc := service.NewScheduleService(st, cacheSvc, metrics, validate, logr)
	teacherSvc := service.NewTeacherService(st, validate, logr)
	courseSvc := service.NewCourseService(st, validate, logr)
	programSvc := service.NewProgramService(st, logr)
	actionSvc := service.NewActionService(st, logr)
	statsSvc := service.NewStatsService(st, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(scheduleSvc, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Handlers{
		Programs:  handler.NewProgramHandler(programSvc),
		Teachers:  handler.NewTeacherHandler(teacherSvc),
		Courses:   handler.NewCourseHandler(courseSvc),
		Schedules: handler.NewScheduleHandler(scheduleSvc, exportSvc),
		Actions:   handler.NewActionHandler(actionSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Seed:      handler.NewSeedHandler(st),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db), nil
	case config.StoreMemory, "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newCacheService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.CacheService {
	if !cfg.Cache.Enabled {
		return nil
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		return nil
	}
	return service.NewCacheService(store.NewCache(client, logr), metrics, cfg.Cache.TTL, logr, true)
}
