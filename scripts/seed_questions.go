// 手动触发题库种子数据导入脚本
//
// 主应用在首次迁移时会自动插入默认题库（仅当题目表为空）。
// 此脚本用于手动导入，例如清库重建或向已有环境补充起步题目。
//
// 用法: go run scripts/seed_questions.go
package main

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/pkg/database"
	"adaptive_quiz_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	// InitDB 完成迁移，并在题目表为空时插入默认题库
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		log.Fatalf("查询题目数量失败: %v", err)
	}
	log.Printf("题库就绪，当前共 %d 道题目", count)
}
