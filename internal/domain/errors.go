package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("service unavailable")
)

// ErrTokenExpired is returned for well-formed tokens past their expiry. It matches ErrUnauthorized.
var ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
