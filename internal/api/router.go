package api

import (
	"time"

	"recipe-finder/internal/api/handlers/health"
	plannerHandler "recipe-finder/internal/api/handlers/planner"
	recipeHandler "recipe-finder/internal/api/handlers/recipe"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/core/planner"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, finder recipeHandler.RecipeFinder, plannerSvc *planner.Service) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	if cfg.BodyLimitBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.BodyLimitBytes))
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, plannerSvc)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		recipes := recipeHandler.NewHandler(finder, cfg.App.Debug)

		// 註冊食譜相關路由
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("/search", recipes.HandleSearch)
			recipeGroup.POST("/normalize", recipes.HandleNormalize)
			recipeGroup.POST("/debug", recipes.HandleDebug)
			recipeGroup.GET("/:id", recipes.HandleGetRecipe)
		}

		meals := plannerHandler.NewHandler(plannerSvc, cfg.App.Debug)

		// 週計畫路由，修改操作需去重
		plannerGroup := api.Group("/planner")
		{
			plannerGroup.GET("/week", meals.HandleWeek)
			plannerGroup.PUT("/:date/:meal", middleware.Deduplication(cfg), meals.HandleAddMeal)
			plannerGroup.DELETE("/:date/:meal", middleware.Deduplication(cfg), meals.HandleRemoveMeal)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("search_configured", cfg.SearchConfigured()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.BodyLimitBytes),
	)

	return router
}
