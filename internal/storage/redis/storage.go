package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// A game and its participations live in one JSON value per chat, so
// every mutation is a read-modify-write of that value; the dispatch
// pool's per-chat lanes serialize those cycles.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Stored records

type gameRecord struct {
	ChatID         model.ChatID          `json:"chat_id"`
	State          model.GameState       `json:"state"`
	CurrentRound   int                   `json:"current_round"`
	Participations []participationRecord `json:"participations"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type participationRecord struct {
	PlayerID model.PlayerID  `json:"player_id"`
	Voted    bool            `json:"voted"`
	Score    int             `json:"score"`
	Slot     model.PhotoSlot `json:"slot"`
}

type playerRecord struct {
	ID             model.PlayerID `json:"id"`
	Username       string         `json:"username"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ProfilePhotoID string         `json:"profile_photo_id"`
	TotalGames     int            `json:"total_games"`
	Wins           int            `json:"wins"`
	Efficiency     float64        `json:"efficiency"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func toPlayerRecord(p *model.Player) playerRecord {
	return playerRecord{
		ID:             p.ID,
		Username:       p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		ProfilePhotoID: p.ProfilePhotoID,
		TotalGames:     p.TotalGames,
		Wins:           p.Wins,
		Efficiency:     p.Efficiency,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r playerRecord) toModel() *model.Player {
	return &model.Player{
		ID:             r.ID,
		Username:       r.Username,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		ProfilePhotoID: r.ProfilePhotoID,
		TotalGames:     r.TotalGames,
		Wins:           r.Wins,
		Efficiency:     r.Efficiency,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Record helpers

func (s *Storage) getGameRecord(ctx context.Context, chatID model.ChatID) (*gameRecord, error) {
	data, err := s.client.Get(ctx, gameKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var rec gameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) saveGameRecord(ctx context.Context, rec *gameRecord) error {
	rec.UpdatedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameKey(rec.ChatID), data, 0).Err()
}

func (s *Storage) getPlayerRecord(ctx context.Context, id model.PlayerID) (*playerRecord, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rec playerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) savePlayerRecord(ctx context.Context, rec *playerRecord) error {
	rec.UpdatedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(rec.ID), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), int64(rec.ID))
	_, err = pipe.Exec(ctx)
	return err
}

// Game operations

func (s *Storage) GetGame(ctx context.Context, chatID model.ChatID) (*model.Game, error) {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		ChatID:       rec.ChatID,
		State:        rec.State,
		CurrentRound: rec.CurrentRound,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}

	for _, part := range rec.Participations {
		game.Participations = append(game.Participations, &model.Participation{
			ChatID:   rec.ChatID,
			PlayerID: part.PlayerID,
			Voted:    part.Voted,
			Score:    part.Score,
			Slot:     part.Slot,
		})
		player, err := s.getPlayerRecord(ctx, part.PlayerID)
		if err != nil {
			return nil, err
		}
		game.Players = append(game.Players, player.toModel())
	}

	return game, nil
}

func (s *Storage) CreateGame(ctx context.Context, chatID model.ChatID) error {
	now := time.Now()
	rec := gameRecord{
		ChatID:       chatID,
		State:        model.GameStateBeginning,
		CurrentRound: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, gameKey(chatID), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrGameExists
	}
	return nil
}

func (s *Storage) SetState(ctx context.Context, chatID model.ChatID, state model.GameState) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	rec.State = state
	return s.saveGameRecord(ctx, rec)
}

func (s *Storage) SetCurrentRound(ctx context.Context, chatID model.ChatID, round int) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	rec.CurrentRound = round
	return s.saveGameRecord(ctx, rec)
}

// Player operations

func (s *Storage) UpsertPlayer(ctx context.Context, player *model.Player) error {
	existing, err := s.getPlayerRecord(ctx, player.ID)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}

	if existing != nil {
		// Refresh display fields only; stats survive the upsert
		existing.Username = player.Username
		existing.FirstName = player.FirstName
		existing.LastName = player.LastName
		existing.ProfilePhotoID = player.ProfilePhotoID
		return s.savePlayerRecord(ctx, existing)
	}

	rec := toPlayerRecord(player)
	rec.CreatedAt = time.Now()
	return s.savePlayerRecord(ctx, &rec)
}

func (s *Storage) IncrementTotalGames(ctx context.Context, playerIDs []model.PlayerID) error {
	for _, id := range playerIDs {
		rec, err := s.getPlayerRecord(ctx, id)
		if err != nil {
			return err
		}
		rec.TotalGames++
		if err := s.savePlayerRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) IncrementWins(ctx context.Context, playerID model.PlayerID) error {
	rec, err := s.getPlayerRecord(ctx, playerID)
	if err != nil {
		return err
	}
	rec.Wins++
	if rec.TotalGames > 0 {
		rec.Efficiency = float64(rec.Wins) / float64(rec.TotalGames)
	}
	return s.savePlayerRecord(ctx, rec)
}

func (s *Storage) ListPlayersByEfficiency(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		rec, err := s.getPlayerRecord(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		players = append(players, rec.toModel())
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Efficiency != players[j].Efficiency {
			return players[i].Efficiency > players[j].Efficiency
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// Participation operations

func (s *Storage) AddParticipation(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	for _, part := range rec.Participations {
		if part.PlayerID == playerID {
			return nil // Already registered
		}
	}
	rec.Participations = append(rec.Participations, participationRecord{
		PlayerID: playerID,
		Slot:     model.PhotoSlotNone,
	})
	return s.saveGameRecord(ctx, rec)
}

func (s *Storage) RemoveParticipation(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	for i, part := range rec.Participations {
		if part.PlayerID == playerID {
			rec.Participations = append(rec.Participations[:i], rec.Participations[i+1:]...)
			return s.saveGameRecord(ctx, rec)
		}
	}
	return model.ErrParticipationNotFound
}

func (s *Storage) SetPhotoSlots(ctx context.Context, chatID model.ChatID, first, second model.PlayerID) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}

	firstIdx, secondIdx := -1, -1
	for i, part := range rec.Participations {
		switch part.PlayerID {
		case first:
			firstIdx = i
		case second:
			secondIdx = i
		}
	}
	if firstIdx == -1 || secondIdx == -1 {
		return model.ErrParticipationNotFound
	}

	rec.Participations[firstIdx].Slot = model.PhotoSlotFirst
	rec.Participations[secondIdx].Slot = model.PhotoSlotSecond
	return s.saveGameRecord(ctx, rec)
}

func (s *Storage) SetVoted(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	for i, part := range rec.Participations {
		if part.PlayerID == playerID {
			rec.Participations[i].Voted = true
			return s.saveGameRecord(ctx, rec)
		}
	}
	return model.ErrParticipationNotFound
}

func (s *Storage) IncrementScore(ctx context.Context, chatID model.ChatID, slot model.PhotoSlot) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	for i, part := range rec.Participations {
		if part.Slot == slot {
			rec.Participations[i].Score++
			return s.saveGameRecord(ctx, rec)
		}
	}
	return model.ErrParticipationNotFound
}

func (s *Storage) ResetParticipations(ctx context.Context, chatID model.ChatID) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	for i := range rec.Participations {
		rec.Participations[i].Voted = false
		rec.Participations[i].Score = 0
		rec.Participations[i].Slot = model.PhotoSlotNone
	}
	return s.saveGameRecord(ctx, rec)
}

func (s *Storage) DeleteAllParticipations(ctx context.Context, chatID model.ChatID) error {
	rec, err := s.getGameRecord(ctx, chatID)
	if err != nil {
		return err
	}
	rec.Participations = nil
	return s.saveGameRecord(ctx, rec)
}
