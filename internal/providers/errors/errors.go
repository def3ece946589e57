package errors

import "errors"

var (
	ErrNotFound = errors.New("provider offering not found")
)
