package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cardscore/models"

	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables used by the store.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Player{},
		&models.Game{},
		&models.GamePlayer{},
		&models.Score{},
	)
}

func (s *GormStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).Order("name").Find(&players).Error
	return players, err
}

func (s *GormStore) GetPlayer(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player
	if err := s.db.WithContext(ctx).First(&player, id).Error; err != nil {
		return nil, translate(err)
	}
	return &player, nil
}

func (s *GormStore) FindPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	var player models.Player
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&player).Error
	if err != nil {
		return nil, translate(err)
	}
	return &player, nil
}

func (s *GormStore) PlayersByID(ctx context.Context, ids []uint) ([]models.Player, error) {
	var players []models.Player
	if len(ids) == 0 {
		return players, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error
	return players, err
}

func (s *GormStore) CreatePlayer(ctx context.Context, player *models.Player) error {
	return translate(s.db.WithContext(ctx).Create(player).Error)
}

func (s *GormStore) DeletePlayer(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Player{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountPlayerGames(ctx context.Context, playerID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.GamePlayer{}).
		Where("player_id = ?", playerID).
		Count(&count).Error
	return count, err
}

func (s *GormStore) CreateGame(ctx context.Context, game *models.Game, playerIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("GamePlayers", "Scores").Create(game).Error; err != nil {
			return err
		}

		seats := make([]models.GamePlayer, len(playerIDs))
		for i, pid := range playerIDs {
			seats[i] = models.GamePlayer{GameID: game.ID, PlayerID: pid, SeatOrder: i}
		}
		if err := tx.Omit("Player").Create(&seats).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *GormStore) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	err := s.withSeats(s.db.WithContext(ctx)).
		Preload("Scores", func(db *gorm.DB) *gorm.DB {
			return db.Order("scores.round_number, scores.player_id")
		}).
		First(&game, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (s *GormStore) ListGames(ctx context.Context, activeOnly bool, limit int) ([]models.Game, error) {
	query := s.withSeats(s.db.WithContext(ctx)).Order("date_played DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var games []models.Game
	err := query.Find(&games).Error
	return games, err
}

func (s *GormStore) ListCompletedGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := s.withSeats(s.db.WithContext(ctx)).
		Preload("Scores").
		Where("is_active = ?", false).
		Order("date_played").
		Find(&games).Error
	return games, err
}

func (s *GormStore) SaveRound(ctx context.Context, gameID uint, scores []models.Score, active bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(scores) > 0 {
			if err := tx.Create(&scores).Error; err != nil {
				return translate(err)
			}
		}
		res := tx.Model(&models.Game{}).Where("id = ?", gameID).Update("is_active", active)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) DeleteGame(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Score{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.GamePlayer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Game{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) withSeats(db *gorm.DB) *gorm.DB {
	return db.
		Preload("GamePlayers", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_players.seat_order")
		}).
		Preload("GamePlayers.Player")
}

// translate maps gorm errors onto the store's sentinels. The database must be
// opened with TranslateError so constraint violations arrive as gorm errors.
// A foreign key violation means a referenced row is gone.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
