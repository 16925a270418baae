package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates the write violated a uniqueness constraint.
	ErrDuplicate = errors.New("repository: duplicate")
)
