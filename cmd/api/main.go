package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-finder/internal/api"
	"recipe-finder/internal/core/planner"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("search_endpoint", cfg.Search.Endpoint),
		zap.Bool("search_configured", cfg.SearchConfigured()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 初始化搜尋服務；未設定時搜尋相關 API 回傳 503
	var searcher search.Searcher
	if cfg.SearchConfigured() {
		searcher = search.NewClient(cfg.Search)
	} else {
		common.LogWarn("Search service not configured, set ORAMA_ENDPOINT and ORAMA_API_KEY")
	}
	searchSvc := search.NewService(searcher, cfg.Search.PageSize)

	// 初始化週計畫儲存
	var store planner.Store = planner.NewMemoryStore()
	if cfg.Redis.Enabled {
		client, err := planner.NewRedisClient(cfg.Redis)
		if err != nil {
			common.LogFatal("Failed to initialize planner store", zap.Error(err))
		}
		defer client.Close()
		store = planner.NewRedisStore(client, cfg.Planner.StorageKey)
	}
	plannerSvc := planner.NewService(store,
		planner.WithResetSchedule(cfg.Planner.ResetWeekday, cfg.Planner.ResetHour),
	)

	// 設置路由
	router := api.SetupRouter(cfg, searchSvc, plannerSvc)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
