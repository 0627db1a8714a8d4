package model

// Attempt 答题流水，追加写入，提交后不再修改
// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID       uint   `gorm:"index;type:bigint unsigned" json:"userId"`
	QuestionID   uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Correct      bool   `gorm:"default:false" json:"correct"`
	GivenAnswer  string `gorm:"type:text" json:"givenAnswer"`
	PointsEarned int    `gorm:"default:0" json:"pointsEarned"`
	TimeSeconds  int    `gorm:"default:0" json:"timeSeconds"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}
