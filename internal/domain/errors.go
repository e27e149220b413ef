package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failure")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("already exists")
)
