package game

import (
	"errors"
	"sort"

	"github.com/samber/lo"

	"github.com/avoronin/photobattle/internal/model"
)

// ErrNoActiveRound is returned when scoring runs without two photo
// slots assigned
var ErrNoActiveRound = errors.New("round has no two photo slots assigned")

// RoundOutcome is the result of scoring one round. On a draw nobody is
// eliminated and WinnerSlot is none.
type RoundOutcome struct {
	WinnerSlot model.PhotoSlot
	LoserID    model.PlayerID
	Draw       bool
}

// scoreRound determines the round outcome from a game snapshot:
// the two slotted participations are compared by score, the lower one
// loses, equal scores are a draw.
func scoreRound(g *model.Game) (RoundOutcome, error) {
	inPlay := lo.Filter(g.Participations, func(p *model.Participation, _ int) bool {
		return p.Slot != model.PhotoSlotNone
	})
	if len(inPlay) != 2 {
		return RoundOutcome{}, ErrNoActiveRound
	}

	sort.SliceStable(inPlay, func(i, j int) bool {
		return inPlay[i].Score < inPlay[j].Score
	})
	loser, winner := inPlay[0], inPlay[1]

	if loser.Score == winner.Score {
		return RoundOutcome{WinnerSlot: model.PhotoSlotNone, Draw: true}, nil
	}
	return RoundOutcome{WinnerSlot: winner.Slot, LoserID: loser.PlayerID}, nil
}
