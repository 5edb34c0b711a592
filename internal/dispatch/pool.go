package dispatch

import (
	"context"
	"encoding/binary"
	"errors"
	"hash/fnv"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/queue"
	"github.com/avoronin/photobattle/internal/storage"
)

// Pool runs the dispatch workers. An intake loop drains the inbound
// queue and fans events out to a fixed set of lanes by chat id hash;
// each lane is consumed by exactly one worker, so events for the same
// chat never run concurrently while different chats proceed in
// parallel.
type Pool struct {
	inbound *queue.Queue[model.Event]
	router  *Router
	storage storage.Storage
	logger  *slog.Logger

	laneCount int
	lanes     []*queue.Queue[model.Event]

	ctx      context.Context
	intakeWG sync.WaitGroup
	workerWG sync.WaitGroup
}

// NewPool creates a dispatch pool with laneCount worker lanes
func NewPool(
	inbound *queue.Queue[model.Event],
	router *Router,
	store storage.Storage,
	laneCount int,
	logger *slog.Logger,
) *Pool {
	if laneCount < 1 {
		laneCount = 1
	}
	return &Pool{
		inbound:   inbound,
		router:    router,
		storage:   store,
		laneCount: laneCount,
		logger:    logger.With(slog.String("component", "dispatch")),
	}
}

// Start spawns the intake loop and one worker per lane. ctx is passed
// to handlers; it is not cancelled by Stop, so in-flight handlers
// always run to completion.
func (p *Pool) Start(ctx context.Context) {
	p.ctx = ctx
	p.lanes = make([]*queue.Queue[model.Event], p.laneCount)
	for i := range p.lanes {
		lane := queue.New[model.Event]()
		p.lanes[i] = lane
		p.workerWG.Add(1)
		go p.work(lane)
	}

	p.intakeWG.Add(1)
	go p.intake()

	p.logger.Info("dispatch pool started", slog.Int("lanes", p.laneCount))
}

// Stop drains the inbound queue into the lanes, then lets every lane
// finish its remaining events. No queued event is lost; no event runs
// twice.
func (p *Pool) Stop() {
	p.inbound.Join()
	p.inbound.Close()
	p.intakeWG.Wait()

	for _, lane := range p.lanes {
		lane.Close()
	}
	p.workerWG.Wait()

	p.logger.Info("dispatch pool stopped")
}

// intake moves events from the inbound queue onto their chat's lane
func (p *Pool) intake() {
	defer p.intakeWG.Done()
	for {
		ev, ok := p.inbound.Get()
		if !ok {
			return
		}
		p.lanes[p.laneFor(ev.ChatID)].Put(ev)
		p.inbound.TaskDone()
	}
}

// work is one lane's consumer loop
func (p *Pool) work(lane *queue.Queue[model.Event]) {
	defer p.workerWG.Done()
	for {
		ev, ok := lane.Get()
		if !ok {
			return
		}
		p.process(ev)
		lane.TaskDone()
	}
}

// process runs one event end to end: load snapshot, route, invoke.
// A failing or panicking handler never stops the lane.
func (p *Pool) process(ev model.Event) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("handler panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.Int64("chat_id", int64(ev.ChatID)),
				slog.String("kind", string(ev.Kind)),
				slog.Int64("seq", ev.Seq),
			)
		}
	}()

	g, err := p.storage.GetGame(p.ctx, ev.ChatID)
	if err != nil {
		if !errors.Is(err, model.ErrGameNotFound) {
			p.logger.Error("load game failed",
				slog.Int64("chat_id", int64(ev.ChatID)),
				slog.String("error", err.Error()),
			)
			return
		}
		g = nil
	}

	handler := p.router.Route(ev, g)
	if handler == nil {
		return // Routing miss, not an error
	}

	if err := handler(p.ctx, ev, g); err != nil {
		p.logger.Error("handler failed",
			slog.Int64("chat_id", int64(ev.ChatID)),
			slog.String("kind", string(ev.Kind)),
			slog.Int64("seq", ev.Seq),
			slog.String("error", err.Error()),
		)
	}
}

// laneFor maps a chat id to its lane index
func (p *Pool) laneFor(chatID model.ChatID) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(chatID))
	h := fnv.New32a()
	h.Write(buf[:])
	return int(h.Sum32() % uint32(p.laneCount))
}
