package domain

import "errors"

var (
	ErrInvalidID         = errors.New("invalid id")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidCategory   = errors.New("invalid status category")
	ErrInvalidStatusID   = errors.New("invalid status id")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidWIPLimit   = errors.New("invalid wip limit")
)
