// Package store persists players, games and round scores.
package store

import (
	"context"
	"errors"

	"cardscore/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with a unique constraint,
	// such as a round that was recorded concurrently.
	ErrConflict = errors.New("record already exists")
)

// Store is implemented by GormStore and MemoryStore. Games returned by
// GetGame and the list methods have GamePlayers (with Player) loaded;
// GetGame and ListCompletedGames also load Scores.
type Store interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id uint) (*models.Player, error)
	FindPlayerByName(ctx context.Context, name string) (*models.Player, error)
	PlayersByID(ctx context.Context, ids []uint) ([]models.Player, error)
	CreatePlayer(ctx context.Context, player *models.Player) error
	DeletePlayer(ctx context.Context, id uint) error
	CountPlayerGames(ctx context.Context, playerID uint) (int64, error)

	CreateGame(ctx context.Context, game *models.Game, playerIDs []uint) error
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	ListGames(ctx context.Context, activeOnly bool, limit int) ([]models.Game, error)
	ListCompletedGames(ctx context.Context) ([]models.Game, error)
	// SaveRound inserts one round's score rows and updates the game's active
	// flag in a single transaction.
	SaveRound(ctx context.Context, gameID uint, scores []models.Score, active bool) error
	DeleteGame(ctx context.Context, id uint) error
}
