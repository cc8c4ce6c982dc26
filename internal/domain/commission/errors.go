package commission

import "errors"

var (
	ErrEntryNotFound     = errors.New("commission entry not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEntryAccessDenied = errors.New("commission entry belongs to another user")
)
