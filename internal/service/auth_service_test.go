package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-for-unit-tests-only"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegister_HashesPasswordAndDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: model.Student}
	require.NoError(t, svc.Register(user))

	var stored model.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&stored).Error)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.Equal(t, 1, stored.Level)
	assert.Equal(t, 0, stored.Points)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	first := &model.User{Name: "Ada", Email: "dup@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(first))

	second := &model.User{Name: "Bob", Email: "dup@example.com", Password: "other456"}
	assert.ErrorIs(t, svc.Register(second), util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Ada", Email: "login@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("login@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestGetUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	user := seedUser(t, db, nil)

	got, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUser(999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
