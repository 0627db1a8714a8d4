package database

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	applog "adaptive_quiz_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Attempt{},
		&model.Badge{},
		&model.UserBadge{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedQuestions(db)
	seedBadges(db)

	return db, nil
}

// 默认徽章目录：与 service.DefaultBadgeCatalog 一致的定义。
// 授予路径会按 code 惰性补建，这里预置只是让目录可直接查询。
func seedBadges(db *gorm.DB) {
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Badge{
		{Code: "rising_star", Name: "Rising Star", Description: "Earned 10 points", Icon: "star", ConditionKind: model.PointsAtLeast, Threshold: 10},
		{Code: "century", Name: "Century", Description: "Earned 100 points", Icon: "trophy", ConditionKind: model.PointsAtLeast, Threshold: 100},
		{Code: "on_fire", Name: "On Fire", Description: "Answered 10 questions in a row correctly", Icon: "flame", ConditionKind: model.StreakAtLeast, Threshold: 10},
		{Code: "master_of_arithmetic", Name: "Master of Arithmetic", Description: "High mastery of arithmetic", Icon: "calculator", ConditionKind: model.MasteryAtLeast, Threshold: 80, Concept: "arithmetic"},
	}
	for _, b := range defaults {
		if err := db.Create(&b).Error; err != nil {
			applog.Log.Warn("Failed to seed badge", zap.String("code", b.Code), zap.Error(err))
		}
	}
}

// 默认题库：题目表为空时插入一批起步题目
func seedQuestions(db *gorm.DB) {
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count > 0 {
		return
	}

	mustJSON := func(v interface{}) json.RawMessage {
		raw, _ := json.Marshal(v)
		return raw
	}

	defaults := []model.Question{
		{
			Text:       "What is a variable?",
			Type:       model.QuestionShortAnswer,
			Answer:     "a container for data",
			Difficulty: 1,
			Points:     10,
			Concepts:   mustJSON([]string{"variables"}),
		},
		{
			Text: "Choose the correct type for whole numbers",
			Type: model.QuestionMCQ,
			Choices: mustJSON([]model.Choice{
				{Text: "float"},
				{Text: "int", Correct: true},
				{Text: "string"},
			}),
			Difficulty: 1,
			Points:     10,
			Concepts:   mustJSON([]string{"types"}),
		},
		{
			Text: "What is 2+2?",
			Type: model.QuestionMCQ,
			Choices: mustJSON([]model.Choice{
				{Text: "3"},
				{Text: "4", Correct: true},
				{Text: "5"},
			}),
			Difficulty: 1,
			Points:     5,
			Concepts:   mustJSON([]string{"arithmetic"}),
		},
		{
			Text: "Choose the correct operator for equality in JavaScript",
			Type: model.QuestionMCQ,
			Choices: mustJSON([]model.Choice{
				{Text: "="},
				{Text: "==", Correct: true},
				{Text: "==="},
			}),
			Difficulty: 2,
			Points:     10,
			Concepts:   mustJSON([]string{"operators"}),
		},
		{
			Text:       "What is a loop used for?",
			Type:       model.QuestionShortAnswer,
			Answer:     "repeat code",
			Difficulty: 1,
			Points:     10,
			Concepts:   mustJSON([]string{"loops"}),
		},
		{
			Text: "Which data structure is LIFO?",
			Type: model.QuestionMCQ,
			Choices: mustJSON([]model.Choice{
				{Text: "Queue"},
				{Text: "Stack", Correct: true},
				{Text: "Tree"},
			}),
			Difficulty: 2,
			Points:     10,
			Concepts:   mustJSON([]string{"data_structures"}),
		},
		{
			Text:       "What does HTML stand for?",
			Type:       model.QuestionShortAnswer,
			Answer:     "hypertext markup language",
			Difficulty: 1,
			Points:     5,
			Concepts:   mustJSON([]string{"html"}),
		},
		{
			Text: "Which tag creates a paragraph in HTML?",
			Type: model.QuestionMCQ,
			Choices: mustJSON([]model.Choice{
				{Text: "<p>", Correct: true},
				{Text: "<div>"},
				{Text: "<span>"},
			}),
			Difficulty: 1,
			Points:     5,
			Concepts:   mustJSON([]string{"html"}),
		},
		{
			Text:       "What is 10 / 2?",
			Type:       model.QuestionShortAnswer,
			Answer:     "5",
			Difficulty: 1,
			Points:     5,
			Concepts:   mustJSON([]string{"arithmetic"}),
		},
		{
			Text: "What is the result of 3 * 3?",
			Type: model.QuestionMCQ,
			Choices: mustJSON([]model.Choice{
				{Text: "6"},
				{Text: "9", Correct: true},
				{Text: "12"},
			}),
			Difficulty: 1,
			Points:     5,
			Concepts:   mustJSON([]string{"arithmetic"}),
		},
	}

	for _, q := range defaults {
		if err := db.Create(&q).Error; err != nil {
			applog.Log.Warn("Failed to seed question", zap.String("text", q.Text), zap.Error(err))
		}
	}
}
