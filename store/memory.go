package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cardscore/models"
)

// MemoryStore keeps everything in process memory. It is used for local runs
// without postgres and in tests.
type MemoryStore struct {
	mu sync.RWMutex

	players map[uint]models.Player
	games   map[uint]models.Game
	seats   map[uint][]models.GamePlayer
	scores  map[uint][]models.Score

	nextPlayerID uint
	nextGameID   uint
	nextSeatID   uint
	nextScoreID  uint

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[uint]models.Player),
		games:   make(map[uint]models.Game),
		seats:   make(map[uint][]models.GamePlayer),
		scores:  make(map[uint][]models.Score),
		now:     time.Now,
	}
}

func (s *MemoryStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]models.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

func (s *MemoryStore) GetPlayer(ctx context.Context, id uint) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) PlayersByID(ctx context.Context, ids []uint) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []models.Player
	for _, id := range ids {
		if p, ok := s.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (s *MemoryStore) CreatePlayer(ctx context.Context, player *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.Name == player.Name {
			return ErrConflict
		}
	}
	s.nextPlayerID++
	player.ID = s.nextPlayerID
	player.CreatedAt = s.now()
	player.UpdatedAt = player.CreatedAt
	s.players[player.ID] = *player
	return nil
}

func (s *MemoryStore) DeletePlayer(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return ErrNotFound
	}
	delete(s.players, id)
	return nil
}

func (s *MemoryStore) CountPlayerGames(ctx context.Context, playerID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, seats := range s.seats {
		for _, gp := range seats {
			if gp.PlayerID == playerID {
				count++
			}
		}
	}
	return count, nil
}

func (s *MemoryStore) CreateGame(ctx context.Context, game *models.Game, playerIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pid := range playerIDs {
		if _, ok := s.players[pid]; !ok {
			return ErrNotFound
		}
	}

	s.nextGameID++
	game.ID = s.nextGameID
	game.CreatedAt = s.now()
	game.UpdatedAt = game.CreatedAt
	if game.DatePlayed.IsZero() {
		game.DatePlayed = game.CreatedAt
	}

	seats := make([]models.GamePlayer, len(playerIDs))
	for i, pid := range playerIDs {
		s.nextSeatID++
		seats[i] = models.GamePlayer{ID: s.nextSeatID, GameID: game.ID, PlayerID: pid, SeatOrder: i}
	}

	stored := *game
	stored.GamePlayers = nil
	stored.Scores = nil
	s.games[game.ID] = stored
	s.seats[game.ID] = seats
	return nil
}

func (s *MemoryStore) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.games[id]; !ok {
		return nil, ErrNotFound
	}
	game := s.loadGame(id, true)
	return &game, nil
}

func (s *MemoryStore) ListGames(ctx context.Context, activeOnly bool, limit int) ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := s.filterGames(func(g models.Game) bool { return !activeOnly || g.IsActive }, false)
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].DatePlayed.Equal(games[j].DatePlayed) {
			return games[i].ID > games[j].ID
		}
		return games[i].DatePlayed.After(games[j].DatePlayed)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (s *MemoryStore) ListCompletedGames(ctx context.Context) ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := s.filterGames(func(g models.Game) bool { return !g.IsActive }, true)
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (s *MemoryStore) SaveRound(ctx context.Context, gameID uint, scores []models.Score, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameID]
	if !ok {
		return ErrNotFound
	}
	for _, incoming := range scores {
		for _, existing := range s.scores[gameID] {
			if existing.PlayerID == incoming.PlayerID && existing.RoundNumber == incoming.RoundNumber {
				return ErrConflict
			}
		}
	}

	now := s.now()
	for _, sc := range scores {
		s.nextScoreID++
		sc.ID = s.nextScoreID
		sc.GameID = gameID
		sc.CreatedAt = now
		s.scores[gameID] = append(s.scores[gameID], sc)
	}
	game.IsActive = active
	game.UpdatedAt = now
	s.games[gameID] = game
	return nil
}

func (s *MemoryStore) DeleteGame(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	delete(s.games, id)
	delete(s.seats, id)
	delete(s.scores, id)
	return nil
}

func (s *MemoryStore) filterGames(keep func(models.Game) bool, withScores bool) []models.Game {
	var games []models.Game
	for id, g := range s.games {
		if keep(g) {
			games = append(games, s.loadGame(id, withScores))
		}
	}
	return games
}

// loadGame assembles a game with its relationships. Callers hold s.mu.
func (s *MemoryStore) loadGame(id uint, withScores bool) models.Game {
	game := s.games[id]

	seats := make([]models.GamePlayer, len(s.seats[id]))
	for i, gp := range s.seats[id] {
		gp.Player = s.players[gp.PlayerID]
		seats[i] = gp
	}
	game.GamePlayers = seats

	if withScores {
		game.Scores = append([]models.Score(nil), s.scores[id]...)
	}
	return game
}
