package service

import "math"

const (
	// MasteryBaseline 未见过的知识点默认掌握度
	MasteryBaseline = 50

	masteryBaseGain    = 10.0
	masteryBasePenalty = 5.0
)

// UpdateMastery 对题目涉及的每个知识点独立应用一次有界更新，
// 返回新的掌握度映射。只修改内存数据，持久化由调用方负责。
//
//   - 答对：delta = 10 × (1 + 1/max(1, difficulty))，难度越低相对增益越大
//   - 答错：delta = -5，与难度无关
//   - 新值四舍五入后收敛到 [0,100]
func UpdateMastery(profile map[string]int, concepts []string, correct bool, difficulty float64) map[string]int {
	if len(concepts) == 0 {
		return profile
	}
	if profile == nil {
		profile = map[string]int{}
	}

	var delta float64
	if correct {
		if difficulty < 1 {
			difficulty = 1
		}
		delta = masteryBaseGain * (1 + 1/difficulty)
	} else {
		delta = -masteryBasePenalty
	}

	for _, concept := range concepts {
		prev, ok := profile[concept]
		if !ok {
			prev = MasteryBaseline
		}
		profile[concept] = clampMastery(int(math.Round(float64(prev) + delta)))
	}
	return profile
}

func clampMastery(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
