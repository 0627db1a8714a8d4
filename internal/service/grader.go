package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/util"
	"strings"
)

// Grade 判定作答是否正确。纯函数，无副作用。
//
// mcq: 恰好有一个选项标记为正确，且其文本去除首尾空白后与作答
// 严格相等（大小写敏感）。short-answer: 标准答案与作答都去除首尾
// 空白并转小写后相等。空作答一律判错，不报错。
func Grade(q *model.Question, givenAnswer string) (bool, error) {
	if q == nil {
		return false, util.ErrInvalidQuestion
	}

	given := strings.TrimSpace(givenAnswer)
	if given == "" {
		return false, nil
	}

	switch q.Type {
	case model.QuestionMCQ:
		var correctChoice *model.Choice
		count := 0
		for _, c := range q.ChoiceList() {
			if c.Correct {
				count++
				choice := c
				correctChoice = &choice
			}
		}
		if count != 1 {
			return false, nil
		}
		return strings.TrimSpace(correctChoice.Text) == given, nil
	default:
		expected := strings.ToLower(strings.TrimSpace(q.Answer))
		return expected == strings.ToLower(given), nil
	}
}
