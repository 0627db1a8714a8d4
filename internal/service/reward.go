package service

import "math"

// CalculateReward 统一的积分计算。确定性纯函数：相同输入永远得到
// 相同积分，重试/幂等请求不会产生不同的奖励。
//
//   - 答错得 0 分
//   - 基础分按难度缩放：base × (1 + (difficulty-1) × 0.25)
//   - 快答奖励：60 秒内每剩余 15 秒 +1
//   - 连对奖励：每连对 5 题 +1，使用本次作答之前的 streak
func CalculateReward(correct bool, difficulty float64, elapsedSeconds, streak, base int) int {
	if !correct {
		return 0
	}

	if difficulty < 1 {
		difficulty = 1
	}
	difficultyMultiplier := 1 + (difficulty-1)*0.25

	// 负耗时按0计，客户端时钟异常不能放大快答奖励
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	remaining := 60 - elapsedSeconds
	if remaining < 0 {
		remaining = 0
	}
	timeBonus := remaining / 15

	streakBonus := streak / 5

	points := int(math.Round(float64(base)*difficultyMultiplier)) + timeBonus + streakBonus
	if points < 0 {
		points = 0
	}
	return points
}
