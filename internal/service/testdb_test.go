package service

import (
	"adaptive_quiz_backend/internal/model"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试独享一个内存库。共享缓存让连接池内的
// 所有连接看到同一份数据；单连接避免 SQLITE_LOCKED。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Attempt{},
		&model.Badge{},
		&model.UserBadge{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, mutate func(*model.User)) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Ada",
		Email:    fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))),
		Password: "hashed",
		Role:     model.Student,
		Level:    1,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedQuestion(t *testing.T, db *gorm.DB, q model.Question) *model.Question {
	t.Helper()
	require.NoError(t, db.Create(&q).Error)
	return &q
}

func shortAnswer(text, answer string, difficulty float64, points int, concepts ...string) model.Question {
	q := model.Question{
		Text:       text,
		Type:       model.QuestionShortAnswer,
		Answer:     answer,
		Difficulty: difficulty,
		Points:     points,
	}
	if len(concepts) > 0 {
		raw, _ := json.Marshal(concepts)
		q.Concepts = raw
	}
	return q
}
