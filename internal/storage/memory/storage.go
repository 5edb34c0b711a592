package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games   map[model.ChatID]*gameRecord
	players map[model.PlayerID]*model.Player
	// participations keep registration order per chat
	participations map[model.ChatID][]*model.Participation
}

type gameRecord struct {
	state        model.GameState
	currentRound int
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:          make(map[model.ChatID]*gameRecord),
		players:        make(map[model.PlayerID]*model.Player),
		participations: make(map[model.ChatID][]*model.Participation),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) GetGame(ctx context.Context, chatID model.ChatID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[chatID]
	if !ok {
		return nil, model.ErrGameNotFound
	}

	game := &model.Game{
		ChatID:       chatID,
		State:        rec.state,
		CurrentRound: rec.currentRound,
		CreatedAt:    rec.createdAt,
		UpdatedAt:    rec.updatedAt,
	}

	// Snapshot: callers receive copies, never the stored records
	for _, part := range s.participations[chatID] {
		partCopy := *part
		game.Participations = append(game.Participations, &partCopy)
		if player, ok := s.players[part.PlayerID]; ok {
			playerCopy := *player
			game.Players = append(game.Players, &playerCopy)
		}
	}

	return game, nil
}

func (s *Storage) CreateGame(ctx context.Context, chatID model.ChatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[chatID]; ok {
		return model.ErrGameExists
	}
	now := time.Now()
	s.games[chatID] = &gameRecord{
		state:        model.GameStateBeginning,
		currentRound: 1,
		createdAt:    now,
		updatedAt:    now,
	}
	return nil
}

func (s *Storage) SetState(ctx context.Context, chatID model.ChatID, state model.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.games[chatID]
	if !ok {
		return model.ErrGameNotFound
	}
	rec.state = state
	rec.updatedAt = time.Now()
	return nil
}

func (s *Storage) SetCurrentRound(ctx context.Context, chatID model.ChatID, round int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.games[chatID]
	if !ok {
		return model.ErrGameNotFound
	}
	rec.currentRound = round
	rec.updatedAt = time.Now()
	return nil
}

// Player operations

func (s *Storage) UpsertPlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.players[player.ID]; ok {
		// Refresh display fields only; stats survive the upsert
		existing.Username = player.Username
		existing.FirstName = player.FirstName
		existing.LastName = player.LastName
		existing.ProfilePhotoID = player.ProfilePhotoID
		existing.UpdatedAt = now
		return nil
	}

	stored := *player
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.players[player.ID] = &stored
	return nil
}

func (s *Storage) IncrementTotalGames(ctx context.Context, playerIDs []model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range playerIDs {
		player, ok := s.players[id]
		if !ok {
			return model.ErrPlayerNotFound
		}
		player.TotalGames++
		player.UpdatedAt = time.Now()
	}
	return nil
}

func (s *Storage) IncrementWins(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	player.Wins++
	if player.TotalGames > 0 {
		player.Efficiency = float64(player.Wins) / float64(player.TotalGames)
	}
	player.UpdatedAt = time.Now()
	return nil
}

func (s *Storage) ListPlayersByEfficiency(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		playerCopy := *player
		players = append(players, &playerCopy)
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
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[chatID]; !ok {
		return model.ErrGameNotFound
	}
	for _, part := range s.participations[chatID] {
		if part.PlayerID == playerID {
			return nil // Already registered
		}
	}
	s.participations[chatID] = append(s.participations[chatID], &model.Participation{
		ChatID:   chatID,
		PlayerID: playerID,
		Slot:     model.PhotoSlotNone,
	})
	return nil
}

func (s *Storage) RemoveParticipation(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := s.participations[chatID]
	for i, part := range parts {
		if part.PlayerID == playerID {
			s.participations[chatID] = append(parts[:i], parts[i+1:]...)
			return nil
		}
	}
	return model.ErrParticipationNotFound
}

func (s *Storage) SetPhotoSlots(ctx context.Context, chatID model.ChatID, first, second model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	firstPart := s.findParticipation(chatID, first)
	secondPart := s.findParticipation(chatID, second)
	if firstPart == nil || secondPart == nil {
		return model.ErrParticipationNotFound
	}
	firstPart.Slot = model.PhotoSlotFirst
	secondPart.Slot = model.PhotoSlotSecond
	return nil
}

func (s *Storage) SetVoted(ctx context.Context, chatID model.ChatID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	part := s.findParticipation(chatID, playerID)
	if part == nil {
		return model.ErrParticipationNotFound
	}
	part.Voted = true
	return nil
}

func (s *Storage) IncrementScore(ctx context.Context, chatID model.ChatID, slot model.PhotoSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, part := range s.participations[chatID] {
		if part.Slot == slot {
			part.Score++
			return nil
		}
	}
	return model.ErrParticipationNotFound
}

func (s *Storage) ResetParticipations(ctx context.Context, chatID model.ChatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, part := range s.participations[chatID] {
		part.Voted = false
		part.Score = 0
		part.Slot = model.PhotoSlotNone
	}
	return nil
}

func (s *Storage) DeleteAllParticipations(ctx context.Context, chatID model.ChatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.participations, chatID)
	return nil
}

// findParticipation must be called with the lock held
func (s *Storage) findParticipation(chatID model.ChatID, playerID model.PlayerID) *model.Participation {
	for _, part := range s.participations[chatID] {
		if part.PlayerID == playerID {
			return part
		}
	}
	return nil
}
