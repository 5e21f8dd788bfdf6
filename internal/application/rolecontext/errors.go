package rolecontext

import "errors"

var (
	ErrInvalidRole     = errors.New("Invalid role")
	ErrMissingProvider = errors.New("Role context not configured")
)
