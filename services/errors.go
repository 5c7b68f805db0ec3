package services

import "errors"

// Sentinel errors the handlers map onto HTTP status codes.
var (
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTableNotFound      = errors.New("table not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("task already completed")
	ErrTableHasUsers      = errors.New("cannot delete table with associated users")
	ErrGamePaused         = errors.New("the game is currently paused")
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
)
