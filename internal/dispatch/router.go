// Package dispatch routes inbound events to game handlers and runs
// them on a pool of per-chat lanes.
package dispatch

import (
	"context"
	"strings"

	"github.com/avoronin/photobattle/internal/keyboard"
	"github.com/avoronin/photobattle/internal/model"
)

// Handler processes one inbound event against a game snapshot
// (nil when the chat has no game yet)
type Handler func(ctx context.Context, ev model.Event, g *model.Game) error

// Handlers is the full set of game handlers the router selects from
type Handlers interface {
	BotJoined(ctx context.Context, ev model.Event, g *model.Game) error
	BotLeft(ctx context.Context, ev model.Event, g *model.Game) error

	PromptBeginning(ctx context.Context, ev model.Event, g *model.Game) error
	PromptRegistration(ctx context.Context, ev model.Event, g *model.Game) error
	PromptGameplay(ctx context.Context, ev model.Event, g *model.Game) error
	PromptStartRound(ctx context.Context, ev model.Event, g *model.Game) error
	PromptFinishRound(ctx context.Context, ev model.Event, g *model.Game) error
	Help(ctx context.Context, ev model.Event, g *model.Game) error

	StartRegistration(ctx context.Context, ev model.Event, g *model.Game) error
	ShowStatistics(ctx context.Context, ev model.Event, g *model.Game) error
	RegisterPlayer(ctx context.Context, ev model.Event, g *model.Game) error
	FinishRegistration(ctx context.Context, ev model.Event, g *model.Game) error
	PlayRound(ctx context.Context, ev model.Event, g *model.Game) error
	VoteFirst(ctx context.Context, ev model.Event, g *model.Game) error
	VoteSecond(ctx context.Context, ev model.Event, g *model.Game) error
	FinishRound(ctx context.Context, ev model.Event, g *model.Game) error
	NextRound(ctx context.Context, ev model.Event, g *model.Game) error
	Exit(ctx context.Context, ev model.Event, g *model.Game) error
}

// Text commands
const (
	startCommand = "/start"
	helpCommand  = "/help"
)

// Router is a pure mapping from (event, game state) to a handler.
// It performs no I/O and no mutation; a nil result means the event is
// dropped.
type Router struct {
	botID model.PlayerID

	statusHandlers   map[model.MemberStatus]Handler
	callbackHandlers map[string]Handler
	stateHandlers    map[model.GameState]Handler
	commandHandlers  map[string]Handler
}

// NewRouter builds the routing tables over the given handler set.
// botID identifies this bot so membership events about other users are
// ignored.
func NewRouter(botID model.PlayerID, h Handlers) *Router {
	return &Router{
		botID: botID,
		statusHandlers: map[model.MemberStatus]Handler{
			model.MemberStatusMember: h.BotJoined,
			model.MemberStatusLeft:   h.BotLeft,
		},
		callbackHandlers: map[string]Handler{
			keyboard.ActionStartRegistration:  h.StartRegistration,
			keyboard.ActionStatistics:         h.ShowStatistics,
			keyboard.ActionRegister:           h.RegisterPlayer,
			keyboard.ActionFinishRegistration: h.FinishRegistration,
			keyboard.ActionPlayRound:          h.PlayRound,
			keyboard.ActionFirstPhoto:         h.VoteFirst,
			keyboard.ActionSecondPhoto:        h.VoteSecond,
			keyboard.ActionFinishRound:        h.FinishRound,
			keyboard.ActionNextRound:          h.NextRound,
			keyboard.ActionExit:               h.Exit,
		},
		stateHandlers: map[model.GameState]Handler{
			model.GameStateBeginning:    h.PromptBeginning,
			model.GameStateRegistration: h.PromptRegistration,
			model.GameStateGameplay:     h.PromptGameplay,
			model.GameStateStartRound:   h.PromptStartRound,
			model.GameStateFinishRound:  h.PromptFinishRound,
		},
		commandHandlers: map[string]Handler{
			helpCommand: h.Help,
		},
	}
}

// Route selects the handler for an event, or nil when the event should
// be dropped
func (r *Router) Route(ev model.Event, g *model.Game) Handler {
	switch ev.Kind {
	case model.EventMembership:
		// Only this bot's own membership changes matter
		if ev.Membership == nil || ev.Membership.SubjectID != r.botID {
			return nil
		}
		return r.statusHandlers[ev.Membership.NewStatus]

	case model.EventCallback:
		if ev.Callback == nil {
			return nil
		}
		return r.callbackHandlers[ev.Callback.Action]

	case model.EventText:
		if ev.Text == nil {
			return nil
		}
		// /start resolves by game state; unknown chats have no prompt
		if strings.Contains(ev.Text.Text, startCommand) {
			if g == nil {
				return nil
			}
			return r.stateHandlers[g.State]
		}
		if strings.Contains(ev.Text.Text, helpCommand) {
			return r.commandHandlers[helpCommand]
		}
	}
	return nil
}
