package model

import "errors"

// Common errors used across the application
var (
	ErrGameNotFound          = errors.New("game not found")
	ErrGameExists            = errors.New("game already exists")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrParticipationNotFound = errors.New("participation not found")
)
