package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidAction    = errors.New("invalid action")
	ErrEmptyRecipe      = errors.New("recipe has no steps")
	ErrUpstream         = errors.New("language backend unavailable")
	ErrExtractionFailed = errors.New("recipe extraction failed")
)
