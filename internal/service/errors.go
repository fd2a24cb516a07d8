package service

import "errors"

var (
	ErrInternal             = errors.New("internal server error")
	ErrForbidden            = errors.New("not allowed to modify this resource")
	ErrPostNotFound         = errors.New("post not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username is already taken")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrSelfFriendship       = errors.New("cannot befriend yourself")
	ErrFriendshipExists     = errors.New("friendship already exists")
	ErrFriendshipNotFound   = errors.New("friendship not found")
	ErrFriendshipNotPending = errors.New("friendship is not pending")
	ErrPageOutOfRange       = errors.New("page is out of range")
)
