package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSessionNotFound    = errors.New("workout session not found")
	ErrSessionNotActive   = errors.New("workout session is not in progress")
	ErrSetNotFound        = errors.New("logged set not found")
	ErrSetMissingEffort   = errors.New("a set must carry reps or time")
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeNotActive = errors.New("challenge is not active")
	ErrChallengeJoined    = errors.New("already joined this challenge")
)
