package repository

import (
	"adaptive_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create 仅在提交事务内调用；流水记录不支持更新或删除
func (r *AttemptRepository) Create(tx *gorm.DB, attempt *model.Attempt) error {
	return tx.Create(attempt).Error
}

func (r *AttemptRepository) FindByUser(userID uint, page, limit int) ([]model.Attempt, int64, error) {
	var attempts []model.Attempt
	var total int64
	if err := r.DB.Model(&model.Attempt{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Preload("Question").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
