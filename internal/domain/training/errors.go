package training

import "errors"

var (
	ErrSessionNotFound = errors.New("training session not found")
	ErrUserNotFound    = errors.New("user not found")
)
