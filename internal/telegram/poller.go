package telegram

import (
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/queue"
)

const (
	pollTimeoutSeconds = 30
	pollRetryDelay     = 3 * time.Second
)

// Poller long-polls the Telegram API and pushes every update, in
// arrival order, onto the inbound queue. The update id of the last
// seen update is echoed back as the offset cursor.
type Poller struct {
	api     *tgbotapi.BotAPI
	inbound *queue.Queue[model.Event]
	logger  *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPoller creates a poller feeding the inbound queue
func NewPoller(api *tgbotapi.BotAPI, inbound *queue.Queue[model.Event], logger *slog.Logger) *Poller {
	return &Poller{
		api:     api,
		inbound: inbound,
		logger:  logger.With(slog.String("component", "poller")),
		stop:    make(chan struct{}),
	}
}

// Start spawns the poll loop
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()
	p.logger.Info("poller started")
}

// Stop signals the poll loop to exit after its current request and
// waits for it
func (p *Poller) Stop() {
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("poller stopped")
}

func (p *Poller) run() {
	defer p.wg.Done()

	offset := 0
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		updates, err := p.api.GetUpdates(tgbotapi.UpdateConfig{
			Offset:  offset,
			Timeout: pollTimeoutSeconds,
		})
		if err != nil {
			p.logger.Error("poll failed", slog.String("error", err.Error()))
			select {
			case <-p.stop:
				return
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			p.inbound.Put(ConvertUpdate(update))
		}
	}
}
