// Package text holds every outbound message template in one place, so
// handlers stay free of copy and tests can assert on exact output.
package text

import (
	"fmt"
	"strings"

	"github.com/avoronin/photobattle/internal/model"
)

const (
	Greeting = "Hi! I run photo battles in this chat. Press the button below to start a new game."

	Beginning = "No game is running. Start registration to play a photo battle."

	Gameplay = "The battle is on! Play a round when everyone is ready."

	StartRound = "Round started! Vote for the photo you want to keep in the game."

	FinishRoundPrompt = "Both photos are up. When everyone has voted, finish the round."

	NextRoundPrompt = "Round over. Ready for the next one?"

	Help = "I host an elimination photo battle.\n" +
		"/start shows the current stage of the game.\n" +
		"Register during sign-up, then vote for one of the two photos each round.\n" +
		"The photo with fewer votes is out; the last player standing wins."

	RegistrationNotReady = "Cannot start: the number of players must be even and at least two."

	NoStatistics = "Nobody has played yet, so there are no statistics."

	VoteAccepted = "Vote counted!"

	VoteRejected = "You cannot vote in this round."

	FirstPhotoWins = "The first photo takes the round!"

	SecondPhotoWins = "The second photo takes the round!"

	Draw = "It's a draw, nobody is eliminated this round."
)

// Registration returns the sign-up prompt with the current player count
func Registration(playerCount int) string {
	return fmt.Sprintf("Registration is open! Players joined: %d", playerCount)
}

// NoProfilePhoto explains why a player could not register
func NoProfilePhoto(name string) string {
	return fmt.Sprintf("%s has no profile photo, so they cannot join the battle.", name)
}

// GameWinner announces the winner of the whole game
func GameWinner(name string) string {
	return fmt.Sprintf("🏆 %s wins the photo battle!", name)
}

// RoundWinner returns the round outcome message for the winning slot,
// or the draw message when slot is none
func RoundWinner(slot model.PhotoSlot) string {
	switch slot {
	case model.PhotoSlotFirst:
		return FirstPhotoWins
	case model.PhotoSlotSecond:
		return SecondPhotoWins
	default:
		return Draw
	}
}

// Statistics renders the all-time leaderboard, best efficiency first
func Statistics(players []*model.Player) string {
	rows := make([]string, 0, len(players)+1)
	rows = append(rows, "All-time results:")
	for _, p := range players {
		rows = append(rows, fmt.Sprintf(
			"Player: %s, games: %d, wins: %d, efficiency: %.0f%%",
			p.DisplayName(), p.TotalGames, p.Wins, p.Efficiency*100,
		))
	}
	return strings.Join(rows, "\n\n")
}
