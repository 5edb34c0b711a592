package redis

import (
	"fmt"

	"github.com/avoronin/photobattle/internal/model"
)

// Key prefix for all bot data
const keyPrefix = "photobattle"

// gameKey returns the Redis key for a game record
func gameKey(chatID model.ChatID) string {
	return fmt.Sprintf("%s:game:%d", keyPrefix, chatID)
}

// playerKey returns the Redis key for a player record
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player ids
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}
