package model

import "time"

// PlayerID is the platform user id
type PlayerID int64

// Player is a global record of one human user across all games.
// Created on first registration, upserted on every registration to keep
// display fields fresh, never deleted.
type Player struct {
	ID             PlayerID
	Username       string
	FirstName      string
	LastName       string
	ProfilePhotoID string

	TotalGames int
	Wins       int
	// Efficiency is always wins / total games, recomputed whenever Wins changes
	Efficiency float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the best human-readable name for the player
func (p *Player) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	if p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.FirstName
}
