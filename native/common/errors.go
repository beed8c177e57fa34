package common

import "errors"

var (
	// ErrInvalidAmount marks a zero amount or one below a product minimum.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance marks a debit exceeding the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrArithmeticOverflow marks a uint64 computation that cannot be
	// represented without wrapping.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrUnauthorized marks a caller lacking the required role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPlatformPaused marks an operation attempted while the platform is
	// halted.
	ErrPlatformPaused = errors.New("platform paused")
	// ErrInvalidTimestamp marks a time input outside the accepted range.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
