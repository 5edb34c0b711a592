package model

import "time"

// ChatID uniquely identifies a chat and therefore the game running in it
type ChatID int64

// GameState represents the current phase of a game
type GameState string

const (
	GameStateBeginning    GameState = "beginning"    // Game exists, nothing started yet
	GameStateRegistration GameState = "registration" // Players joining
	GameStateGameplay     GameState = "gameplay"     // Between rounds, waiting for "play round"
	GameStateStartRound   GameState = "start_round"  // Two photos posted, voting open
	GameStateFinishRound  GameState = "finish_round" // Round scored, waiting for "next round"
	GameStateRemoved      GameState = "removed"      // Bot was removed from the chat
)

// PhotoSlot marks which of the two photos in play a participation holds this round
type PhotoSlot string

const (
	PhotoSlotNone   PhotoSlot = "none"
	PhotoSlotFirst  PhotoSlot = "first"
	PhotoSlotSecond PhotoSlot = "second"
)

// Participation is the per-game round state of one player
type Participation struct {
	ChatID   ChatID
	PlayerID PlayerID
	Voted    bool
	Score    int
	Slot     PhotoSlot
}

// Game is one game instance, one per chat. Handlers receive it as a
// point-in-time snapshot with Players and Participations materialized;
// after a mutation the snapshot is stale and must be re-fetched.
type Game struct {
	ChatID       ChatID
	State        GameState
	CurrentRound int

	Players        []*Player
	Participations []*Participation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Player returns the registered player with the given id, or nil
func (g *Game) Player(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Participation returns the participation of the given player, or nil
func (g *Game) Participation(id PlayerID) *Participation {
	for _, p := range g.Participations {
		if p.PlayerID == id {
			return p
		}
	}
	return nil
}

// CanStartGame reports whether registration may be closed:
// the live player count must be even and positive
func (g *Game) CanStartGame() bool {
	n := len(g.Players)
	return n > 0 && n%2 == 0
}

// AllVoted reports whether every participation has voted
func (g *Game) AllVoted() bool {
	for _, p := range g.Participations {
		if !p.Voted {
			return false
		}
	}
	return true
}

// SoleSurvivor returns the last remaining player, or nil if more than
// one (or none) remain
func (g *Game) SoleSurvivor() *Player {
	if len(g.Players) == 1 {
		return g.Players[0]
	}
	return nil
}
