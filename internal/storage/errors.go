// Package storage holds the errors shared by every ItemStore implementation.
package storage

import "errors"

var (
	ErrNotFound  = errors.New("storage: item not found")
	ErrDuplicate = errors.New("storage: item already exists")
)
