package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
)

type GamificationService struct {
	UserRepo  *repository.UserRepository
	BadgeRepo *repository.BadgeRepository
}

func NewGamificationService(userRepo *repository.UserRepository, badgeRepo *repository.BadgeRepository) *GamificationService {
	return &GamificationService{
		UserRepo:  userRepo,
		BadgeRepo: badgeRepo,
	}
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

type Leaderboard struct {
	Top    []LeaderboardEntry `json:"top"`
	MyRank int                `json:"myRank,omitempty"`
}

// GetLeaderboard 积分排行榜前 N 名，以及请求者自己的名次
func (s *GamificationService) GetLeaderboard(userID uint, limit int) (*Leaderboard, error) {
	users, err := s.UserRepo.FindTopByPoints(limit)
	if err != nil {
		return nil, err
	}

	top := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		top[i] = LeaderboardEntry{
			Rank:   i + 1,
			Name:   u.Name,
			Points: u.Points,
			Level:  u.Level,
		}
	}

	board := &Leaderboard{Top: top}

	if userID != 0 {
		me, err := s.UserRepo.FindByID(userID)
		if err == nil {
			higher, err := s.UserRepo.CountWithMorePoints(me.Points)
			if err == nil {
				board.MyRank = int(higher) + 1
			}
		}
	}

	return board, nil
}

func (s *GamificationService) GetUserBadges(userID uint) ([]model.UserBadge, error) {
	return s.BadgeRepo.FindByUser(userID)
}
