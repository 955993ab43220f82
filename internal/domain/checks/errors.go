package checks

import "errors"

var (
	ErrCheckNotFound = errors.New("check not found")
	ErrInvalidInput  = errors.New("check title and prompt are required")
)
