package models

import "errors"

var (
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrInvalidOrder       = errors.New("invalid sort order")
	ErrInvalidFilterField = errors.New("invalid filter field")
	ErrValidation         = errors.New("validation error")
)
