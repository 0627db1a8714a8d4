package service

import "adaptive_quiz_backend/internal/model"

// BadgeRule 徽章目录条目：定义 + 封闭的授予条件
type BadgeRule struct {
	Code        string
	Name        string
	Description string
	Icon        string

	Kind      model.BadgeConditionKind
	Threshold int
	// Concept 仅 MasteryAtLeast 使用
	Concept string
}

func (r BadgeRule) Definition() model.Badge {
	return model.Badge{
		Code:          r.Code,
		Name:          r.Name,
		Description:   r.Description,
		Icon:          r.Icon,
		ConditionKind: r.Kind,
		Threshold:     r.Threshold,
		Concept:       r.Concept,
	}
}

// Holds 对用户当前聚合状态求值条件；封闭分发，不做运行时表达式解析
func (r BadgeRule) Holds(user *model.User) bool {
	switch r.Kind {
	case model.PointsAtLeast:
		return user.Points >= r.Threshold
	case model.MasteryAtLeast:
		score, ok := user.MasteryMap()[r.Concept]
		if !ok {
			score = MasteryBaseline
		}
		return score >= r.Threshold
	case model.StreakAtLeast:
		return user.Streak >= r.Threshold
	default:
		return false
	}
}

// DefaultBadgeCatalog 内置徽章目录
func DefaultBadgeCatalog() []BadgeRule {
	return []BadgeRule{
		{
			Code:        "rising_star",
			Name:        "Rising Star",
			Description: "Earned 10 points",
			Icon:        "star",
			Kind:        model.PointsAtLeast,
			Threshold:   10,
		},
		{
			Code:        "century",
			Name:        "Century",
			Description: "Earned 100 points",
			Icon:        "trophy",
			Kind:        model.PointsAtLeast,
			Threshold:   100,
		},
		{
			Code:        "on_fire",
			Name:        "On Fire",
			Description: "Answered 10 questions in a row correctly",
			Icon:        "flame",
			Kind:        model.StreakAtLeast,
			Threshold:   10,
		},
		{
			Code:        "master_of_arithmetic",
			Name:        "Master of Arithmetic",
			Description: "High mastery of arithmetic",
			Icon:        "calculator",
			Kind:        model.MasteryAtLeast,
			Threshold:   80,
			Concept:     "arithmetic",
		},
	}
}

// EvaluateBadges 返回条件成立且尚未持有的徽章规则。
// 对已更新状态重复求值不会产生重复授予。
func EvaluateBadges(user *model.User, held map[string]bool, catalog []BadgeRule) []BadgeRule {
	var newlyQualified []BadgeRule
	for _, rule := range catalog {
		if held[rule.Code] {
			continue
		}
		if rule.Holds(user) {
			newlyQualified = append(newlyQualified, rule)
		}
	}
	return newlyQualified
}
