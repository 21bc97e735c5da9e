package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrInactive      = errors.New("subscription inactive")
	ErrUpstream      = errors.New("upstream unavailable")
	ErrResolution    = errors.New("asset resolution failed")
	ErrBadResponse   = errors.New("malformed upstream response")
)
