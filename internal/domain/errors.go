package domain

import "errors"

var (
	ErrInvalidPrompt  = errors.New("invalid prompt")
	ErrInvalidCount   = errors.New("invalid variation count")
	ErrInvalidMessage = errors.New("invalid message")
)
