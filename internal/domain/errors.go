// Package domain errors.go contains sentinel errors
package domain

import "errors"

// Sentinel domain-level errors reused by higher layers.
var (
	ErrNotFound    = errors.New("audio not found")
	ErrNoFile      = errors.New("missing audio file")
	ErrInvalidID   = errors.New("invalid audio id")
	ErrInvalidDate = errors.New("invalid date")
)
