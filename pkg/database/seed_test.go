package database

import (
	"adaptive_quiz_backend/internal/model"
	applog "adaptive_quiz_backend/pkg/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	applog.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open("file:seed_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Question{}, &model.Badge{}))
	return db
}

func TestSeedQuestions_OnlyWhenEmpty(t *testing.T) {
	db := newSeedTestDB(t)

	seedQuestions(db)
	var count int64
	require.NoError(t, db.Model(&model.Question{}).Count(&count).Error)
	assert.EqualValues(t, 10, count)

	// 已有数据时不重复插入
	seedQuestions(db)
	require.NoError(t, db.Model(&model.Question{}).Count(&count).Error)
	assert.EqualValues(t, 10, count)
}

func TestSeedBadges_OnlyWhenEmpty(t *testing.T) {
	db := newSeedTestDB(t)

	seedBadges(db)
	var count int64
	require.NoError(t, db.Model(&model.Badge{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	seedBadges(db)
	require.NoError(t, db.Model(&model.Badge{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	var century model.Badge
	require.NoError(t, db.Where("code = ?", "century").First(&century).Error)
	assert.Equal(t, model.PointsAtLeast, century.ConditionKind)
	assert.Equal(t, 100, century.Threshold)
}
