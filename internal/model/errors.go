package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrResetTokenNotFound = errors.New("reset token not found")

	// Document errors
	ErrManagerNotFound = errors.New("manager profile not found")
	ErrStadiumNotFound = errors.New("stadium not found")
)
