package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cardscore/models"
	"cardscore/store"
)

type PlayerService struct {
	store store.Store
}

func NewPlayerService(st store.Store) *PlayerService {
	return &PlayerService{store: st}
}

type CreatePlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id uint) (*models.Player, error) {
	player, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, notFound(err, "player %d", id)
	}
	return player, nil
}

// CreatePlayer registers a new player. Names are trimmed and must be unique
// ignoring case.
func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if _, err := s.store.FindPlayerByName(ctx, name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up player name: %w", err)
	}

	player := models.Player{Name: name}
	if err := s.store.CreatePlayer(ctx, &player); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create player: %w", err)
	}

	log.Printf("Player created: %d (%s)", player.ID, player.Name)
	return &player, nil
}

// DeletePlayer removes a player who has never been seated in a game.
func (s *PlayerService) DeletePlayer(ctx context.Context, id uint) error {
	if _, err := s.GetPlayer(ctx, id); err != nil {
		return err
	}

	count, err := s.store.CountPlayerGames(ctx, id)
	if err != nil {
		return fmt.Errorf("count player games: %w", err)
	}
	if count > 0 {
		return ErrPlayerHasHistory
	}

	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return notFound(err, "player %d", id)
	}
	log.Printf("Player deleted: %d", id)
	return nil
}

// notFound converts store.ErrNotFound into ErrNotFound with context and
// passes anything else through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return err
}
