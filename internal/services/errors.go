package services

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrUpstream       = errors.New("upstream service failed")
	ErrContentBlocked = errors.New("content rejected by filter")
)

// ValidationError carries a user-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// ContentError is a moderation rejection. It matches ErrContentBlocked and
// its message is already localised.
type ContentError struct {
	Reason string
	Msg    string
}

func (e *ContentError) Error() string { return e.Msg }

func (e *ContentError) Is(target error) bool { return target == ErrContentBlocked }
