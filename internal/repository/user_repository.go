package repository

import (
	"adaptive_quiz_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate 在事务内锁定用户行，串行化同一用户的并发提交。
// SQLite 事务本身是单写者，跳过 FOR UPDATE 语法。
func (r *UserRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.User, error) {
	db := tx
	if tx.Dialector.Name() == "mysql" {
		db = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(tx *gorm.DB, user *model.User) error {
	return tx.Save(user).Error
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) FindTopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("points DESC").Limit(limit).Find(&users).Error
	return users, err
}

// CountWithMorePoints 排行榜名次 = 比我积分高的人数 + 1
func (r *UserRepository) CountWithMorePoints(points int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("points > ?", points).Count(&count).Error
	return count, err
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}
