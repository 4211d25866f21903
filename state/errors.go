package state

import "errors"

var (
	ErrClassNotFound     = errors.New("class not found")
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)
