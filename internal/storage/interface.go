package storage

import (
	"context"

	"github.com/avoronin/photobattle/internal/model"
)

// Storage is the game store: the single source of truth for games,
// players and participations. GetGame returns a materialized snapshot;
// every mutation is a separate conditional operation. Callers needing
// read-modify-write consistency for one chat must serialize their
// handlers per chat (the dispatch pool's lanes do this).
type Storage interface {
	// Game operations
	GetGame(ctx context.Context, chatID model.ChatID) (*model.Game, error)
	CreateGame(ctx context.Context, chatID model.ChatID) error
	SetState(ctx context.Context, chatID model.ChatID, state model.GameState) error
	SetCurrentRound(ctx context.Context, chatID model.ChatID, round int) error

	// Player operations
	UpsertPlayer(ctx context.Context, player *model.Player) error
	IncrementTotalGames(ctx context.Context, playerIDs []model.PlayerID) error
	IncrementWins(ctx context.Context, playerID model.PlayerID) error
	ListPlayersByEfficiency(ctx context.Context) ([]*model.Player, error)

	// Participation operations
	AddParticipation(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error
	RemoveParticipation(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error
	SetPhotoSlots(ctx context.Context, chatID model.ChatID, first, second model.PlayerID) error
	SetVoted(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error
	IncrementScore(ctx context.Context, chatID model.ChatID, slot model.PhotoSlot) error
	ResetParticipations(ctx context.Context, chatID model.ChatID) error
	DeleteAllParticipations(ctx context.Context, chatID model.ChatID) error
}
