// @title Adaptive Quiz 后端 API
// @version 1.0
// @description 自适应学习测验平台的后端服务器。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"adaptive_quiz_backend/internal/app"
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/pkg/configwatcher"
	"adaptive_quiz_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	// 配置热重载：目前只动态调整日志级别
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		level := zap.InfoLevel
		if newCfg.Server.Mode == "debug" {
			level = zap.DebugLevel
		}
		logger.Level.SetLevel(level)
		logger.Log.Info("Config reloaded", zap.String("mode", newCfg.Server.Mode))
	})

	application.Run()
}
