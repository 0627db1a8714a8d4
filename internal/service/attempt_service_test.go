package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(
		db,
		repository.NewUserRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewBadgeRepository(db),
	)
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestSubmitAttempt_CorrectAnswerFullPipeline(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, nil)
	q := seedQuestion(t, db, shortAnswer("What is 2+2?", "4", 1, 10, "arithmetic"))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID:  q.ID,
		GivenAnswer: "4",
		TimeSeconds: 0,
	})
	require.NoError(t, err)

	// 10 基础分 + 4 快答奖励
	assert.Equal(t, 14, result.User.Points)
	assert.Equal(t, 1, result.User.Level)
	assert.Equal(t, 1, result.User.Streak)
	assert.Equal(t, 70, result.User.Mastery["arithmetic"])

	require.NotNil(t, result.Attempt)
	assert.True(t, result.Attempt.Correct)
	assert.Equal(t, 14, result.Attempt.PointsEarned)
	assert.Equal(t, "4", result.Attempt.GivenAnswer)
	assert.NotEmpty(t, result.Attempt.ID)

	// 14 分越过 rising_star 阈值
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "rising_star", result.NewBadges[0].Code)

	// 全部落库
	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 14, stored.Points)
	assert.Equal(t, 1, stored.Streak)
	assert.Equal(t, 70, stored.MasteryMap()["arithmetic"])
	assert.EqualValues(t, 1, countRows(t, db, &model.Attempt{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.UserBadge{}))
}

func TestSubmitAttempt_StreakAndLevelCrossing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) {
		u.Points = 90
		u.Streak = 5
	})
	q := seedQuestion(t, db, shortAnswer("hard one", "yes", 3, 10, "algebra"))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID:  q.ID,
		GivenAnswer: "YES",
		TimeSeconds: 70,
	})
	require.NoError(t, err)

	// round(10×1.5)=15，超时无时间奖励，连对5 => +1
	assert.Equal(t, 16, result.Attempt.PointsEarned)
	assert.Equal(t, 106, result.User.Points)
	assert.Equal(t, 2, result.User.Level)
	assert.Equal(t, 6, result.User.Streak)

	codes := make([]string, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		codes = append(codes, b.Code)
	}
	assert.ElementsMatch(t, []string{"rising_star", "century"}, codes)
}

func TestSubmitAttempt_IncorrectResetsStreakAndLowersMastery(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) {
		u.Points = 40
		u.Streak = 7
		u.SetMastery(map[string]int{"fractions": 60})
	})
	q := seedQuestion(t, db, shortAnswer("1/2 + 1/4 = ?", "3/4", 2, 10, "fractions"))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID:  q.ID,
		GivenAnswer: "1/2",
		TimeSeconds: 5,
	})
	require.NoError(t, err)

	assert.False(t, result.Attempt.Correct)
	assert.Equal(t, 0, result.Attempt.PointsEarned)
	assert.Equal(t, 40, result.User.Points, "points never decrease")
	assert.Equal(t, 0, result.User.Streak)
	assert.Equal(t, 55, result.User.Mastery["fractions"])
	assert.Empty(t, result.NewBadges)

	// 流水照常记录
	assert.EqualValues(t, 1, countRows(t, db, &model.Attempt{}))
}

func TestSubmitAttempt_EmptyAnswerIsIncorrect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) { u.Streak = 3 })
	q := seedQuestion(t, db, shortAnswer("capital of France?", "paris", 1, 10, "geography"))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID:  q.ID,
		GivenAnswer: "   ",
		TimeSeconds: 2,
	})
	require.NoError(t, err)
	assert.False(t, result.Attempt.Correct)
	assert.Equal(t, 0, result.User.Streak)
}

func TestSubmitAttempt_NegativeTimeNotRewarded(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, nil)
	q := seedQuestion(t, db, shortAnswer("q", "a", 1, 10, "arithmetic"))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID:  q.ID,
		GivenAnswer: "a",
		TimeSeconds: -1000000,
	})
	require.NoError(t, err)

	// 与即时作答同分：10 基础分 + 4 快答奖励
	assert.Equal(t, 14, result.Attempt.PointsEarned)
	assert.Equal(t, 14, result.User.Points)
}

func TestSubmitAttempt_UnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) { u.Points = 25 })
	svc := newAttemptService(db)

	_, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{QuestionID: 4242, GivenAnswer: "x"})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	// 没有任何副作用
	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 25, stored.Points)
	assert.EqualValues(t, 0, countRows(t, db, &model.Attempt{}))
}

func TestSubmitAttempt_ZeroQuestionID(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, nil)
	svc := newAttemptService(db)

	_, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{QuestionID: 0})
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)
}

func TestSubmitAttempt_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	q := seedQuestion(t, db, shortAnswer("q", "a", 1, 10))
	svc := newAttemptService(db)

	_, err := svc.SubmitAttempt(999, SubmitAttemptRequest{QuestionID: q.ID, GivenAnswer: "a"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.EqualValues(t, 0, countRows(t, db, &model.Attempt{}))
}

func TestSubmitAttempt_BadgeAwardedExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) { u.Points = 95 })
	q := seedQuestion(t, db, shortAnswer("q", "a", 1, 10, "geography"))
	svc := newAttemptService(db)

	first, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID: q.ID, GivenAnswer: "a", TimeSeconds: 70,
	})
	require.NoError(t, err)
	require.True(t, first.Attempt.Correct)
	assert.GreaterOrEqual(t, first.User.Points, 100)

	centuryAwards := func() int64 {
		var n int64
		require.NoError(t, db.Model(&model.UserBadge{}).
			Joins("JOIN badges ON badges.id = user_badges.badge_id").
			Where("user_badges.user_id = ? AND badges.code = ?", user.ID, "century").
			Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, centuryAwards())

	// 再次提交：条件仍成立，但不再重复授予
	second, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID: q.ID, GivenAnswer: "a", TimeSeconds: 70,
	})
	require.NoError(t, err)
	assert.Empty(t, second.NewBadges)
	assert.EqualValues(t, 1, centuryAwards())

	// 定义按 code 惰性创建，不重复
	var defs int64
	require.NoError(t, db.Model(&model.Badge{}).Where("code = ?", "century").Count(&defs).Error)
	assert.EqualValues(t, 1, defs)
}

func TestSubmitAttempt_MasteryBadgeForConcept(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) {
		u.SetMastery(map[string]int{"arithmetic": 75})
	})
	q := seedQuestion(t, db, shortAnswer("q", "a", 1, 10, "arithmetic"))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID: q.ID, GivenAnswer: "a", TimeSeconds: 70,
	})
	require.NoError(t, err)

	// 75 + 20 收敛到 95，越过 master_of_arithmetic 阈值 80
	assert.Equal(t, 95, result.User.Mastery["arithmetic"])
	codes := make([]string, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		codes = append(codes, b.Code)
	}
	assert.Contains(t, codes, "master_of_arithmetic")
}

func TestSubmitAttempt_FailureRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) { u.Points = 95 })
	q := seedQuestion(t, db, shortAnswer("q", "a", 1, 10, "arithmetic"))
	svc := newAttemptService(db)

	// 破坏流水表，制造流水落库失败
	require.NoError(t, db.Migrator().DropTable(&model.Attempt{}))

	_, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID: q.ID, GivenAnswer: "a", TimeSeconds: 0,
	})
	require.Error(t, err)

	// 整体回滚：积分、掌握度、徽章全部不可见
	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 95, stored.Points)
	assert.Equal(t, 0, stored.Streak)
	assert.Empty(t, stored.MasteryMap())
	assert.EqualValues(t, 0, countRows(t, db, &model.UserBadge{}))
}

func TestSubmitAttempt_UntaggedQuestionLeavesMasteryUntouched(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, func(u *model.User) {
		u.SetMastery(map[string]int{"history": 42})
	})
	q := seedQuestion(t, db, shortAnswer("untagged", "a", 1, 10))
	svc := newAttemptService(db)

	result, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID: q.ID, GivenAnswer: "a", TimeSeconds: 70,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"history": 42}, result.User.Mastery)
}

func TestListAttemptsRedacted_StripsGradingInformation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, nil)
	q := seedQuestion(t, db, *mcqQuestion(t, []model.Choice{
		{Text: "3"},
		{Text: "4", Correct: true},
	}))
	svc := newAttemptService(db)

	_, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
		QuestionID: q.ID, GivenAnswer: "3", TimeSeconds: 5,
	})
	require.NoError(t, err)

	items, total, err := svc.ListAttemptsRedacted(user.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)

	// 历史中的题目与 /questions/next 同样脱敏
	require.NotNil(t, items[0].Question)
	assert.Equal(t, []SafeChoice{{Text: "3"}, {Text: "4"}}, items[0].Question.Choices)

	raw, err := json.Marshal(items[0].Question)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"answer"`)
	assert.NotContains(t, string(raw), `"correct"`)

	// 教师端完整记录不受影响
	full, _, err := svc.ListAttempts(user.ID, 1, 20)
	require.NoError(t, err)
	require.NotNil(t, full[0].Question)
	assert.True(t, full[0].Question.ChoiceList()[1].Correct)
}

func TestListAttempts_PaginationAndOrdering(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, nil)
	q := seedQuestion(t, db, shortAnswer("q", "a", 1, 10))
	svc := newAttemptService(db)

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAttempt(user.ID, SubmitAttemptRequest{
			QuestionID: q.ID, GivenAnswer: "a", TimeSeconds: 70,
		})
		require.NoError(t, err)
	}

	attempts, total, err := svc.ListAttempts(user.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, attempts, 2)

	// 非法分页参数回退默认值
	attempts, total, err = svc.ListAttempts(user.ID, 0, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, attempts, 3)
}

func TestTranslateTxError(t *testing.T) {
	assert.NoError(t, translateTxError(nil))

	deadlock := errors.New("Error 1213: Deadlock found when trying to get lock; try restarting transaction")
	assert.ErrorIs(t, translateTxError(deadlock), util.ErrTransactionConflict)

	timeout := errors.New("Error 1205: Lock wait timeout exceeded; try restarting transaction")
	assert.ErrorIs(t, translateTxError(timeout), util.ErrTransactionConflict)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateTxError(other))
}
