package model

import (
	"encoding/json"
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('student','teacher','admin');default:'student'" json:"role"`

	// 累计积分，只通过答题流水线增加
	Points int `gorm:"default:0" json:"points"`
	// 等级由积分推导：floor(points/100)+1
	Level int `gorm:"default:1" json:"level"`
	// 连续答对计数，答错归零
	Streak int `gorm:"default:0" json:"streak"`
	// 知识点掌握度映射 concept -> [0,100]
	Mastery json.RawMessage `gorm:"type:json" json:"mastery"`

	LastLogin time.Time `gorm:"autoCreateTime" json:"lastLogin"`
	LastSeen  time.Time `gorm:"autoCreateTime" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// MasteryMap decodes the stored mastery profile. A missing or malformed
// column yields an empty map; unseen concepts default at read sites.
func (u *User) MasteryMap() map[string]int {
	m := map[string]int{}
	if len(u.Mastery) > 0 {
		_ = json.Unmarshal(u.Mastery, &m)
	}
	return m
}

func (u *User) SetMastery(m map[string]int) {
	raw, _ := json.Marshal(m)
	u.Mastery = raw
}

// LevelForPoints 等级规则：每100积分升一级
func LevelForPoints(points int) int {
	return points/100 + 1
}
