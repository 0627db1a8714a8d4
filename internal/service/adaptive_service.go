package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"errors"
	"sort"

	"gorm.io/gorm"
)

type AdaptiveService struct {
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	Cfg          *config.Config
}

func NewAdaptiveService(userRepo *repository.UserRepository, questionRepo *repository.QuestionRepository, cfg *config.Config) *AdaptiveService {
	return &AdaptiveService{
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		Cfg:          cfg,
	}
}

// SafeChoice 学生可见的选项，剥离 correct 标志
type SafeChoice struct {
	Text string `json:"text"`
}

// SafeQuestion 学生可见的题目。不含标准答案和正确标志——
// 这是硬性契约，泄露判分信息会使测评失效。
type SafeQuestion struct {
	ID         uint               `json:"id"`
	Text       string             `json:"text"`
	Type       model.QuestionType `json:"type"`
	Choices    []SafeChoice       `json:"choices"`
	Difficulty float64            `json:"difficulty"`
	Points     int                `json:"points"`
	Concepts   []string           `json:"concepts"`
}

func Redact(q *model.Question) *SafeQuestion {
	choices := q.ChoiceList()
	safe := make([]SafeChoice, len(choices))
	for i, c := range choices {
		safe[i] = SafeChoice{Text: c.Text}
	}
	return &SafeQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Choices:    safe,
		Difficulty: q.Difficulty,
		Points:     q.Points,
		Concepts:   q.ConceptTags(),
	}
}

// averageMastery 候选题得分 = 题目知识点掌握度均值。
// 未见过的知识点按基线 50 计；无标签题目恰好得 50，
// 既不自动排最前也不排最后。
func averageMastery(profile map[string]int, concepts []string) float64 {
	if len(concepts) == 0 {
		return MasteryBaseline
	}
	sum := 0
	for _, c := range concepts {
		score, ok := profile[c]
		if !ok {
			score = MasteryBaseline
		}
		sum += score
	}
	return float64(sum) / float64(len(concepts))
}

// SelectNextQuestion 从候选池中选出掌握度最薄弱的题目。
// 排序键：掌握度均值升序、难度升序、题目 ID 升序。第三键保证
// 排序是稳定确定的全序（取代旧实现中无效的随机比较器）。
// 空池返回 nil。只读，不修改任何状态。
func SelectNextQuestion(profile map[string]int, pool []model.Question) *model.Question {
	if len(pool) == 0 {
		return nil
	}

	type scored struct {
		question   *model.Question
		avgMastery float64
	}
	ranked := make([]scored, len(pool))
	for i := range pool {
		ranked[i] = scored{
			question:   &pool[i],
			avgMastery: averageMastery(profile, pool[i].ConceptTags()),
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].avgMastery != ranked[j].avgMastery {
			return ranked[i].avgMastery < ranked[j].avgMastery
		}
		if ranked[i].question.Difficulty != ranked[j].question.Difficulty {
			return ranked[i].question.Difficulty < ranked[j].question.Difficulty
		}
		return ranked[i].question.ID < ranked[j].question.ID
	})

	return ranked[0].question
}

// NextQuestion 为用户挑选下一题，可按知识点过滤候选池
func (s *AdaptiveService) NextQuestion(userID uint, concept string) (*SafeQuestion, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	pool, err := s.QuestionRepo.ListCandidates(s.Cfg.Quiz.CandidatePoolLimit)
	if err != nil {
		return nil, err
	}

	if concept != "" {
		filtered := pool[:0]
		for _, q := range pool {
			for _, tag := range q.ConceptTags() {
				if tag == concept {
					filtered = append(filtered, q)
					break
				}
			}
		}
		pool = filtered
	}

	next := SelectNextQuestion(user.MasteryMap(), pool)
	if next == nil {
		return nil, util.ErrNoQuestionsAvailable
	}
	return Redact(next), nil
}
