package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type AttemptService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	BadgeRepo    *repository.BadgeRepository
	Catalog      []BadgeRule
}

func NewAttemptService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	badgeRepo *repository.BadgeRepository,
) *AttemptService {
	return &AttemptService{
		DB:           db,
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		BadgeRepo:    badgeRepo,
		Catalog:      DefaultBadgeCatalog(),
	}
}

type SubmitAttemptRequest struct {
	QuestionID  uint   `json:"questionId" binding:"required"`
	GivenAnswer string `json:"givenAnswer"`
	TimeSeconds int    `json:"timeSeconds" binding:"gte=0"`
}

// UserSummary 提交后的用户摘要，不含其他学生的任何数据
type UserSummary struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Points  int            `json:"points"`
	Level   int            `json:"level"`
	Streak  int            `json:"streak"`
	Mastery map[string]int `json:"mastery"`
}

type AttemptResult struct {
	Attempt   *model.Attempt `json:"attempt"`
	User      UserSummary    `json:"user"`
	NewBadges []model.Badge  `json:"newBadges"`
}

// SubmitAttempt 答题提交流水线。判分、积分、掌握度、徽章和
// Attempt 流水在同一事务内落库：要么全部可见，要么全部回滚。
// 事务内任一步失败都会中止整个提交。
func (s *AttemptService) SubmitAttempt(userID uint, req SubmitAttemptRequest) (*AttemptResult, error) {
	if req.QuestionID == 0 {
		return nil, util.ErrInvalidQuestion
	}

	var result AttemptResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		question, err := s.QuestionRepo.FindByIDTx(tx, req.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuestionNotFound
			}
			return err
		}

		// 锁定用户行：同一用户的并发提交串行执行，避免丢失更新
		user, err := s.UserRepo.FindByIDForUpdate(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		correct, err := Grade(question, req.GivenAnswer)
		if err != nil {
			return err
		}

		// streak 奖励使用本次提交之前的连对数
		points := CalculateReward(correct, question.Difficulty, req.TimeSeconds, user.Streak, question.Points)

		if points > 0 {
			user.Points += points
			user.Level = model.LevelForPoints(user.Points)
			user.Streak++
		} else {
			user.Streak = 0
		}

		// 掌握度跟踪正确性而非积分，奖励为零时同样更新
		user.SetMastery(UpdateMastery(user.MasteryMap(), question.ConceptTags(), correct, question.Difficulty))

		held, err := s.BadgeRepo.HeldCodes(tx, user.ID)
		if err != nil {
			return err
		}
		newBadges := make([]model.Badge, 0)
		for _, rule := range EvaluateBadges(user, held, s.Catalog) {
			badge, err := s.BadgeRepo.EnsureByCode(tx, rule.Definition())
			if err != nil {
				return err
			}
			if err := s.BadgeRepo.Award(tx, user.ID, badge.ID); err != nil {
				return err
			}
			newBadges = append(newBadges, *badge)
		}

		attempt := &model.Attempt{
			UserID:       user.ID,
			QuestionID:   question.ID,
			Correct:      correct,
			GivenAnswer:  req.GivenAnswer,
			PointsEarned: points,
			TimeSeconds:  req.TimeSeconds,
		}
		if err := s.AttemptRepo.Create(tx, attempt); err != nil {
			return err
		}

		if err := s.UserRepo.Save(tx, user); err != nil {
			return err
		}

		result = AttemptResult{
			Attempt: attempt,
			User: UserSummary{
				ID:      user.ID,
				Name:    user.Name,
				Email:   user.Email,
				Points:  user.Points,
				Level:   user.Level,
				Streak:  user.Streak,
				Mastery: user.MasteryMap(),
			},
			NewBadges: newBadges,
		}
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	return &result, nil
}

// ListAttempts 完整答题历史，题目含标准答案，仅教师端使用
func (s *AttemptService) ListAttempts(userID uint, page, limit int) ([]model.Attempt, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.AttemptRepo.FindByUser(userID, page, limit)
}

// AttemptHistoryItem 学生可见的历史条目，关联题目已脱敏
type AttemptHistoryItem struct {
	model.Attempt
	Question *SafeQuestion `json:"question,omitempty"`
}

// ListAttemptsRedacted 学生查询自己的答题历史。历史中的题目可能
// 被选题器再次下发，标准答案和正确标志与 /questions/next 一样
// 不得出现在响应里。
func (s *AttemptService) ListAttemptsRedacted(userID uint, page, limit int) ([]AttemptHistoryItem, int64, error) {
	attempts, total, err := s.ListAttempts(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]AttemptHistoryItem, len(attempts))
	for i, a := range attempts {
		item := AttemptHistoryItem{Attempt: a}
		if a.Question != nil {
			item.Question = Redact(a.Question)
		}
		item.Attempt.Question = nil
		items[i] = item
	}
	return items, total, nil
}

// translateTxError 把存储层的并发冲突映射为可重试错误。
// 事务已整体回滚，调用方可以安全地原样重试。
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "Deadlock found") || strings.Contains(msg, "Lock wait timeout") {
		return util.ErrTransactionConflict
	}
	return err
}
