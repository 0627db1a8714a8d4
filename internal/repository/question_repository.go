package repository

import (
	"adaptive_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDTx 事务内读取题目，保证与同事务的写一致
func (r *QuestionRepository) FindByIDTx(tx *gorm.DB, id uint) (*model.Question, error) {
	var q model.Question
	if err := tx.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) List(page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64
	if err := r.DB.Model(&model.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Offset((page - 1) * limit).Limit(limit).Order("id ASC").Find(&questions).Error
	return questions, total, err
}

// ListCandidates 自适应选题候选池；概念过滤在内存中进行，
// 避免依赖方言相关的 JSON 查询语法
func (r *QuestionRepository) ListCandidates(limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Limit(limit).Order("id ASC").Find(&questions).Error
	return questions, err
}
