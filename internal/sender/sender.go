// Package sender drains the outbound queue and delivers each message
// command to the platform, strictly one at a time in FIFO order.
package sender

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/queue"
)

// Sink is the platform send API consumed by the sender
type Sink interface {
	SendText(ctx context.Context, chatID model.ChatID, text string, kb *model.Keyboard) error
	EditText(ctx context.Context, chatID model.ChatID, messageID int, text string, kb *model.Keyboard) error
	SendPhoto(ctx context.Context, chatID model.ChatID, photoRef string, kb *model.Keyboard) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Sender is the single consumer of the outbound queue. Global FIFO
// delivery keeps per-chat message order regardless of which worker
// enqueued each command. A failed delivery is logged and dropped, never
// retried.
type Sender struct {
	outbound *queue.Queue[model.Command]
	sink     Sink
	logger   *slog.Logger

	ctx context.Context
	wg  sync.WaitGroup
}

// New creates a sender over the given outbound queue and sink
func New(outbound *queue.Queue[model.Command], sink Sink, logger *slog.Logger) *Sender {
	return &Sender{
		outbound: outbound,
		sink:     sink,
		logger:   logger.With(slog.String("component", "sender")),
	}
}

// Start spawns the delivery loop
func (s *Sender) Start(ctx context.Context) {
	s.ctx = ctx
	s.wg.Add(1)
	go s.run()
	s.logger.Info("sender started")
}

// Stop waits for the outbound queue to drain, then stops the loop
func (s *Sender) Stop() {
	s.outbound.Join()
	s.outbound.Close()
	s.wg.Wait()
	s.logger.Info("sender stopped")
}

func (s *Sender) run() {
	defer s.wg.Done()
	for {
		cmd, ok := s.outbound.Get()
		if !ok {
			return
		}
		s.deliver(cmd)
		s.outbound.TaskDone()
	}
}

// deliver selects the sink operation by command kind alone
func (s *Sender) deliver(cmd model.Command) {
	var err error
	switch cmd.Kind {
	case model.CommandSendText:
		err = s.sink.SendText(s.ctx, cmd.ChatID, cmd.Text, cmd.Keyboard)
	case model.CommandEditText:
		err = s.sink.EditText(s.ctx, cmd.ChatID, cmd.MessageID, cmd.Text, cmd.Keyboard)
	case model.CommandSendPhoto:
		err = s.sink.SendPhoto(s.ctx, cmd.ChatID, cmd.PhotoRef, cmd.Keyboard)
	case model.CommandAnswerCallback:
		err = s.sink.AnswerCallback(s.ctx, cmd.CallbackID, cmd.Text, cmd.ShowAlert)
	default:
		s.logger.Error("unknown command kind dropped", slog.String("kind", string(cmd.Kind)))
		return
	}

	if err != nil {
		s.logger.Error("delivery failed",
			slog.String("kind", string(cmd.Kind)),
			slog.Int64("chat_id", int64(cmd.ChatID)),
			slog.String("error", err.Error()),
		)
	}
}
