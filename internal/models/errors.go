package models

import "errors"

var (
	ErrUnknownEntry = errors.New("models: unknown entry kind")
	ErrSumOverflow  = errors.New("models: sum overflows int64")
)
