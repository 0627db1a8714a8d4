package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrInvalidQuestion      = errors.New("invalid question")
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrTransactionConflict  = errors.New("transaction conflict, retry the request")
)
