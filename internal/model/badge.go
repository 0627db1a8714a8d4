package model

import "time"

// BadgeConditionKind 徽章授予条件的封闭类型
type BadgeConditionKind string

const (
	PointsAtLeast  BadgeConditionKind = "points_at_least"
	MasteryAtLeast BadgeConditionKind = "mastery_at_least"
	StreakAtLeast  BadgeConditionKind = "streak_at_least"
)

// swagger:model Badge
type Badge struct {
	BaseModel
	Code        string `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:100" json:"icon"`

	ConditionKind BadgeConditionKind `gorm:"size:50" json:"conditionKind"`
	Threshold     int                `gorm:"default:0" json:"threshold"`
	// Concept 仅 mastery_at_least 使用
	Concept string `gorm:"size:100" json:"concept,omitempty"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户已获得徽章，复合唯一键保证同一徽章至多一次
type UserBadge struct {
	UserID    uint      `gorm:"primaryKey;type:bigint unsigned" json:"userId"`
	BadgeID   uint      `gorm:"primaryKey;type:bigint unsigned" json:"badgeId"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awardedAt"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
