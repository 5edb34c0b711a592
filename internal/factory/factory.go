package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/avoronin/photobattle/internal/config"
	"github.com/avoronin/photobattle/internal/dependencies/clock"
	"github.com/avoronin/photobattle/internal/dependencies/random"
	"github.com/avoronin/photobattle/internal/dispatch"
	"github.com/avoronin/photobattle/internal/game"
	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/queue"
	"github.com/avoronin/photobattle/internal/sender"
	"github.com/avoronin/photobattle/internal/storage"
	"github.com/avoronin/photobattle/internal/storage/memory"
	redisstorage "github.com/avoronin/photobattle/internal/storage/redis"
)

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Lanes is the dispatch worker lane count
	Lanes int
	// BotID is this bot's own platform user id
	BotID model.PlayerID
	// Photos fetches user profile photos
	Photos game.ProfilePhotos
	// Sink delivers outbound messages
	Sink sender.Sink
}

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Inbound  *queue.Queue[model.Event]
	Outbound *queue.Queue[model.Command]

	Controller *game.Controller
	Router     *dispatch.Router
	Pool       *dispatch.Pool
	Sender     *sender.Sender
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	var store storage.Storage
	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *App {
	inbound := queue.New[model.Event]()
	outbound := queue.New[model.Command]()

	controller := game.NewController(store, outbound, cfg.Photos, clk, rnd, logger)
	router := dispatch.NewRouter(cfg.BotID, controller)
	pool := dispatch.NewPool(inbound, router, store, cfg.Lanes, logger)
	snd := sender.New(outbound, cfg.Sink, logger)

	return &App{
		Storage:    store,
		Inbound:    inbound,
		Outbound:   outbound,
		Controller: controller,
		Router:     router,
		Pool:       pool,
		Sender:     snd,
	}
}

// Close releases storage resources
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
