package model

import "encoding/json"

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionShortAnswer QuestionType = "short-answer"
)

// Choice 选择题选项；correct 标志仅教师端可见
type Choice struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// swagger:model Question
type Question struct {
	BaseModel
	Text string       `gorm:"type:text;not null" json:"text"`
	Type QuestionType `gorm:"size:20;not null" json:"type"`
	// Choices JSON: []Choice，仅 mcq 使用
	Choices json.RawMessage `gorm:"type:json" json:"choices,omitempty"`
	// 标准答案，仅 short-answer 使用
	Answer     string  `gorm:"type:text" json:"answer,omitempty"`
	Difficulty float64 `gorm:"default:1" json:"difficulty"`
	Points     int     `gorm:"default:10" json:"points"`
	// Concepts JSON: []string 知识点标签
	Concepts json.RawMessage `gorm:"type:json" json:"concepts"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) ChoiceList() []Choice {
	var cs []Choice
	if len(q.Choices) > 0 {
		_ = json.Unmarshal(q.Choices, &cs)
	}
	return cs
}

func (q *Question) ConceptTags() []string {
	var tags []string
	if len(q.Concepts) > 0 {
		_ = json.Unmarshal(q.Concepts, &tags)
	}
	return tags
}
