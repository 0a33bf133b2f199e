package errors

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrAchievementNotFound   = errors.New("achievement not found")
	ErrLastUser              = errors.New("cannot delete the last user in the system")
	ErrReservedUser          = errors.New("username is reserved for the admin identity")
	ErrEmptyUsername         = errors.New("username must not be empty")
	ErrAchievementExists     = errors.New("achievement already exists")
	ErrInvalidAchievement    = errors.New("achievement id and name are required")
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
)
