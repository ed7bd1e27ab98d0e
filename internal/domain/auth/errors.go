package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenExpired          = errors.New("token has expired")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrSelfAccessOnly        = errors.New("employees may only access their own records")
	ErrTooManyRequests       = errors.New("too many requests")
)
