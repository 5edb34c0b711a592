package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/avoronin/photobattle/internal/dependencies/clock"
	"github.com/avoronin/photobattle/internal/dependencies/random"
	"github.com/avoronin/photobattle/internal/keyboard"
	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/queue"
	"github.com/avoronin/photobattle/internal/storage"
	"github.com/avoronin/photobattle/internal/text"
)

// ProfilePhotos fetches a user's profile photo reference from the
// platform. An empty reference means the user has no photo.
type ProfilePhotos interface {
	UserProfilePhoto(ctx context.Context, id model.PlayerID) (string, error)
}

// Controller owns the game state machine. Its handler methods are the
// only code that requests state transitions; each receives the inbound
// event and a point-in-time game snapshot (nil when the chat has no
// game yet) and enqueues outbound commands.
//
// Handlers assume per-chat serialization: the dispatch pool never runs
// two handlers for the same chat concurrently.
type Controller struct {
	storage  storage.Storage
	outbound *queue.Queue[model.Command]
	photos   ProfilePhotos
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a game controller
func NewController(
	storage storage.Storage,
	outbound *queue.Queue[model.Command],
	photos ProfilePhotos,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		outbound: outbound,
		photos:   photos,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "game")),
	}
}

func (c *Controller) send(cmd model.Command) {
	c.outbound.Put(cmd)
}

// Membership handlers

// BotJoined handles the bot being added to a chat: creates the game on
// first contact, or resets an existing game's state to beginning.
func (c *Controller) BotJoined(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil {
		if err := c.storage.CreateGame(ctx, ev.ChatID); err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		c.logger.Info("game created", slog.Int64("chat_id", int64(ev.ChatID)))
	} else {
		if err := c.storage.SetState(ctx, ev.ChatID, model.GameStateBeginning); err != nil {
			return fmt.Errorf("set state: %w", err)
		}
	}
	c.send(model.SendText(ev.ChatID, text.Greeting, nil))
	return nil
}

// BotLeft handles the bot being removed from a chat
func (c *Controller) BotLeft(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil {
		return nil
	}
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateRemoved); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	if len(g.Participations) > 0 {
		if err := c.storage.DeleteAllParticipations(ctx, g.ChatID); err != nil {
			return fmt.Errorf("delete participations: %w", err)
		}
	}
	c.logger.Info("bot removed from chat", slog.Int64("chat_id", int64(g.ChatID)))
	return nil
}

// State prompts, reached via /start

// PromptBeginning reminds the chat how to start a game
func (c *Controller) PromptBeginning(ctx context.Context, ev model.Event, g *model.Game) error {
	c.send(model.SendText(g.ChatID, text.Beginning, keyboard.Beginning))
	return nil
}

// PromptRegistration repeats the sign-up prompt with the current count
func (c *Controller) PromptRegistration(ctx context.Context, ev model.Event, g *model.Game) error {
	c.send(model.SendText(g.ChatID, text.Registration(len(g.Participations)), keyboard.Registration))
	return nil
}

// PromptGameplay repeats the between-rounds prompt
func (c *Controller) PromptGameplay(ctx context.Context, ev model.Event, g *model.Game) error {
	c.send(model.SendText(g.ChatID, text.Gameplay, keyboard.Gameplay))
	return nil
}

// PromptStartRound reminds the chat that voting is open
func (c *Controller) PromptStartRound(ctx context.Context, ev model.Event, g *model.Game) error {
	c.send(model.SendText(g.ChatID, text.StartRound, nil))
	return nil
}

// PromptFinishRound reminds the chat to advance to the next round
func (c *Controller) PromptFinishRound(ctx context.Context, ev model.Event, g *model.Game) error {
	c.send(model.SendText(g.ChatID, text.NextRoundPrompt, keyboard.NextRound))
	return nil
}

// Help handles the /help command in any state
func (c *Controller) Help(ctx context.Context, ev model.Event, g *model.Game) error {
	c.send(model.SendText(ev.ChatID, text.Help, nil))
	return nil
}

// Callback handlers

// StartRegistration opens sign-up
func (c *Controller) StartRegistration(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil || g.State != model.GameStateBeginning {
		return nil
	}
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateRegistration); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	c.send(model.SendText(g.ChatID, text.Registration(len(g.Participations)), keyboard.Registration))
	return nil
}

// ShowStatistics posts the all-time leaderboard
func (c *Controller) ShowStatistics(ctx context.Context, ev model.Event, g *model.Game) error {
	players, err := c.storage.ListPlayersByEfficiency(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		c.send(model.SendText(ev.ChatID, text.NoStatistics, nil))
		return nil
	}
	c.send(model.SendText(ev.ChatID, text.Statistics(players), nil))
	return nil
}

// RegisterPlayer signs the pressing user up for the current game.
// A user without a profile photo cannot play; the chat is told so.
func (c *Controller) RegisterPlayer(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil || g.State != model.GameStateRegistration {
		return nil
	}

	photoRef, err := c.photos.UserProfilePhoto(ctx, ev.Actor.ID)
	if err != nil {
		return fmt.Errorf("fetch profile photo: %w", err)
	}

	player := &model.Player{
		ID:             ev.Actor.ID,
		Username:       ev.Actor.Username,
		FirstName:      ev.Actor.FirstName,
		LastName:       ev.Actor.LastName,
		ProfilePhotoID: photoRef,
	}

	if photoRef == "" {
		c.send(model.SendText(g.ChatID, text.NoProfilePhoto(player.DisplayName()), nil))
		return nil
	}

	// Upsert on every press to keep display fields fresh
	if err := c.storage.UpsertPlayer(ctx, player); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	if g.Player(ev.Actor.ID) != nil {
		return nil // Already registered, nothing to announce
	}

	if err := c.storage.AddParticipation(ctx, g.ChatID, ev.Actor.ID); err != nil {
		return fmt.Errorf("add participation: %w", err)
	}
	c.send(model.EditText(
		g.ChatID,
		ev.Callback.MessageID,
		text.Registration(len(g.Participations)+1),
		keyboard.Registration,
	))
	return nil
}

// FinishRegistration closes sign-up and moves to gameplay, refusing
// when the player count is odd or zero
func (c *Controller) FinishRegistration(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil || g.State != model.GameStateRegistration {
		return nil
	}
	if !g.CanStartGame() {
		c.send(model.SendText(g.ChatID, text.RegistrationNotReady, nil))
		return nil
	}

	playerIDs := lo.Map(g.Players, func(p *model.Player, _ int) model.PlayerID { return p.ID })
	if err := c.storage.IncrementTotalGames(ctx, playerIDs); err != nil {
		return fmt.Errorf("increment total games: %w", err)
	}
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateGameplay); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	c.logger.Info("registration finished",
		slog.Int64("chat_id", int64(g.ChatID)),
		slog.Int("player_count", len(g.Players)),
	)
	c.send(model.SendText(g.ChatID, text.Gameplay, keyboard.Gameplay))
	return nil
}

// PlayRound picks two random players, posts their photos and opens voting
func (c *Controller) PlayRound(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil || g.State != model.GameStateGameplay {
		return nil
	}
	if len(g.Players) < 2 {
		return nil
	}

	c.send(model.EditText(g.ChatID, ev.Callback.MessageID, text.StartRound, nil))
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateStartRound); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	i, j := c.random.Pick2(len(g.Players))
	first, second := g.Players[i], g.Players[j]
	if err := c.storage.SetPhotoSlots(ctx, g.ChatID, first.ID, second.ID); err != nil {
		return fmt.Errorf("set photo slots: %w", err)
	}

	c.logger.Info("round started",
		slog.Int64("chat_id", int64(g.ChatID)),
		slog.Int64("first_player", int64(first.ID)),
		slog.Int64("second_player", int64(second.ID)),
	)

	c.send(model.SendPhoto(g.ChatID, first.ProfilePhotoID, keyboard.FirstPhoto))
	c.send(model.SendPhoto(g.ChatID, second.ProfilePhotoID, keyboard.SecondPhoto))
	c.send(model.SendText(g.ChatID, text.FinishRoundPrompt, keyboard.FinishRound))
	return nil
}

// VoteFirst counts a vote for the first photo
func (c *Controller) VoteFirst(ctx context.Context, ev model.Event, g *model.Game) error {
	return c.vote(ctx, ev, g, model.PhotoSlotFirst)
}

// VoteSecond counts a vote for the second photo
func (c *Controller) VoteSecond(ctx context.Context, ev model.Event, g *model.Game) error {
	return c.vote(ctx, ev, g, model.PhotoSlotSecond)
}

func (c *Controller) vote(ctx context.Context, ev model.Event, g *model.Game, slot model.PhotoSlot) error {
	if g == nil || g.State != model.GameStateStartRound {
		return nil
	}

	if !canPlayerVote(g, ev.Actor.ID) {
		c.send(model.AnswerCallback(ev.Callback.ID, text.VoteRejected, false))
		return nil
	}

	c.send(model.AnswerCallback(ev.Callback.ID, text.VoteAccepted, false))
	if err := c.storage.SetVoted(ctx, g.ChatID, ev.Actor.ID); err != nil {
		return fmt.Errorf("set voted: %w", err)
	}
	if err := c.storage.IncrementScore(ctx, g.ChatID, slot); err != nil {
		return fmt.Errorf("increment score: %w", err)
	}

	updated, err := c.storage.GetGame(ctx, g.ChatID)
	if err != nil {
		return fmt.Errorf("refetch game: %w", err)
	}
	if updated.AllVoted() {
		return c.chooseWinner(ctx, updated)
	}
	return nil
}

// FinishRound scores the round early, before everyone has voted
func (c *Controller) FinishRound(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil || g.State != model.GameStateStartRound {
		return nil
	}
	return c.chooseWinner(ctx, g)
}

// NextRound resets participations and returns to gameplay
func (c *Controller) NextRound(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil || g.State != model.GameStateFinishRound {
		return nil
	}
	if err := c.storage.ResetParticipations(ctx, g.ChatID); err != nil {
		return fmt.Errorf("reset participations: %w", err)
	}
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateGameplay); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	c.send(model.SendText(g.ChatID, text.Gameplay, keyboard.Gameplay))
	return nil
}

// Exit aborts the game from any state: drops all participations and
// returns to beginning
func (c *Controller) Exit(ctx context.Context, ev model.Event, g *model.Game) error {
	if g == nil {
		return nil
	}
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateBeginning); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	if err := c.storage.SetCurrentRound(ctx, g.ChatID, 1); err != nil {
		return fmt.Errorf("reset current round: %w", err)
	}
	if err := c.storage.DeleteAllParticipations(ctx, g.ChatID); err != nil {
		return fmt.Errorf("delete participations: %w", err)
	}
	c.logger.Info("game reset", slog.Int64("chat_id", int64(g.ChatID)))
	c.send(model.SendText(g.ChatID, text.Beginning, keyboard.Beginning))
	return nil
}

// chooseWinner scores the current round, eliminates the loser and
// either finishes the game (one player left) or awaits the next round
func (c *Controller) chooseWinner(ctx context.Context, g *model.Game) error {
	if err := c.storage.SetState(ctx, g.ChatID, model.GameStateFinishRound); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	outcome, err := scoreRound(g)
	if err != nil {
		return err
	}

	if !outcome.Draw {
		if err := c.storage.RemoveParticipation(ctx, g.ChatID, outcome.LoserID); err != nil {
			return fmt.Errorf("remove loser: %w", err)
		}
		c.logger.Info("player eliminated",
			slog.Int64("chat_id", int64(g.ChatID)),
			slog.Int64("player_id", int64(outcome.LoserID)),
		)
	}

	updated, err := c.storage.GetGame(ctx, g.ChatID)
	if err != nil {
		return fmt.Errorf("refetch game: %w", err)
	}

	if winner := updated.SoleSurvivor(); winner != nil {
		if err := c.storage.SetState(ctx, g.ChatID, model.GameStateBeginning); err != nil {
			return fmt.Errorf("set state: %w", err)
		}
		if err := c.storage.IncrementWins(ctx, winner.ID); err != nil {
			return fmt.Errorf("increment wins: %w", err)
		}
		c.logger.Info("game won",
			slog.Int64("chat_id", int64(g.ChatID)),
			slog.Int64("winner_id", int64(winner.ID)),
			slog.Duration("game_duration", c.clock.Now().Sub(updated.CreatedAt)),
		)
		c.send(model.SendText(g.ChatID, text.GameWinner(winner.DisplayName()), keyboard.FinishGame))
		if err := c.storage.DeleteAllParticipations(ctx, g.ChatID); err != nil {
			return fmt.Errorf("delete participations: %w", err)
		}
		return nil
	}

	c.send(model.SendText(g.ChatID, text.RoundWinner(outcome.WinnerSlot), nil))
	c.send(model.SendText(g.ChatID, text.NextRoundPrompt, keyboard.NextRound))
	return nil
}

// canPlayerVote reports whether the actor participates in the game and
// has not voted yet this round
func canPlayerVote(g *model.Game, id model.PlayerID) bool {
	part := g.Participation(id)
	return part != nil && !part.Voted
}
