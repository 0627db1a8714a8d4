package repository

import (
	"adaptive_quiz_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

// EnsureByCode 按唯一 code 惰性创建徽章定义。并发首建时输掉
// 唯一键竞争的一方回退为读取胜者的记录，而不是报错。
func (r *BadgeRepository) EnsureByCode(tx *gorm.DB, def model.Badge) (*model.Badge, error) {
	var badge model.Badge
	err := tx.Where("code = ?", def.Code).First(&badge).Error
	if err == nil {
		return &badge, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	badge = def
	if err := tx.Create(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.Badge
			if ferr := tx.Where("code = ?", def.Code).First(&existing).Error; ferr != nil {
				return nil, ferr
			}
			return &existing, nil
		}
		return nil, err
	}
	return &badge, nil
}

// HeldCodes 用户当前持有的徽章 code 集合
func (r *BadgeRepository) HeldCodes(tx *gorm.DB, userID uint) (map[string]bool, error) {
	var codes []string
	err := tx.Model(&model.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Pluck("badges.code", &codes).Error
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(codes))
	for _, c := range codes {
		held[c] = true
	}
	return held, nil
}

func (r *BadgeRepository) Award(tx *gorm.DB, userID, badgeID uint) error {
	ub := model.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: time.Now(),
	}
	if err := tx.Create(&ub).Error; err != nil {
		// 复合主键兜底：同一徽章重复授予视为已持有
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

func (r *BadgeRepository) FindByUser(userID uint) ([]model.UserBadge, error) {
	var badges []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&badges).Error
	return badges, err
}
