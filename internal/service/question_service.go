package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionRequest struct {
	Text       string         `json:"text" binding:"required"`
	Type       string         `json:"type" binding:"required,oneof=mcq short-answer"`
	Choices    []model.Choice `json:"choices"`
	Answer     string         `json:"answer"`
	Difficulty float64        `json:"difficulty"`
	Points     int            `json:"points"`
	Concepts   []string       `json:"concepts"`
}

// CreateQuestion 出题（教师端）。返回完整题目，含正确标志；
// 学生端一律走 /questions/next 的脱敏版本。
func (s *QuestionService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	if req.Difficulty < 1 {
		req.Difficulty = 1
	}
	if req.Points <= 0 {
		req.Points = 10
	}

	q := &model.Question{
		Text:       req.Text,
		Type:       model.QuestionType(req.Type),
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Points:     req.Points,
	}
	if req.Choices != nil {
		raw, _ := json.Marshal(req.Choices)
		q.Choices = raw
	}
	if req.Concepts == nil {
		req.Concepts = []string{}
	}
	rawConcepts, _ := json.Marshal(req.Concepts)
	q.Concepts = rawConcepts

	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) ListQuestions(page, limit int) ([]model.Question, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit)
}
