package store

import (
	"context"
	"errors"
	"testing"

	"cardscore/models"
)

func seedPlayers(t *testing.T, s Store, names ...string) []uint {
	t.Helper()
	ids := make([]uint, len(names))
	for i, name := range names {
		p := &models.Player{Name: name}
		if err := s.CreatePlayer(context.Background(), p); err != nil {
			t.Fatalf("create player %s: %v", name, err)
		}
		ids[i] = p.ID
	}
	return ids
}

func TestMemoryStorePlayers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedPlayers(t, s, "Zoe", "Adam")

	players, err := s.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].Name != "Adam" {
		t.Fatalf("expected players sorted by name, got %+v", players)
	}

	found, err := s.FindPlayerByName(ctx, "zoe")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if found.Name != "Zoe" {
		t.Fatalf("expected Zoe, got %s", found.Name)
	}

	if err := s.CreatePlayer(ctx, &models.Player{Name: "Zoe"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.GetPlayer(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeletePlayer(ctx, found.ID); err != nil {
		t.Fatalf("delete player: %v", err)
	}
	if err := s.DeletePlayer(ctx, found.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStoreGameLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ids := seedPlayers(t, s, "Ann", "Bob", "Cat")

	game := &models.Game{GameType: "five_crowns", IsActive: true}
	if err := s.CreateGame(ctx, game, []uint{ids[2], ids[0]}); err != nil {
		t.Fatalf("create game: %v", err)
	}

	loaded, err := s.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got := loaded.SeatedPlayerIDs(); len(got) != 2 || got[0] != ids[2] || got[1] != ids[0] {
		t.Fatalf("unexpected seat order %v", got)
	}
	if loaded.GamePlayers[0].Player.Name != "Cat" {
		t.Fatalf("expected seated player to be loaded, got %+v", loaded.GamePlayers[0])
	}

	if n, _ := s.CountPlayerGames(ctx, ids[0]); n != 1 {
		t.Fatalf("expected Ann in one game, got %d", n)
	}

	round := []models.Score{
		{PlayerID: ids[2], RoundNumber: 1, Points: 5},
		{PlayerID: ids[0], RoundNumber: 1, Points: 0, WentOut: true},
	}
	if err := s.SaveRound(ctx, game.ID, round, false); err != nil {
		t.Fatalf("save round: %v", err)
	}
	if err := s.SaveRound(ctx, game.ID, round, false); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate round, got %v", err)
	}

	completed, err := s.ListCompletedGames(ctx)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || len(completed[0].Scores) != 2 {
		t.Fatalf("expected one completed game with scores, got %+v", completed)
	}

	active, _ := s.ListGames(ctx, true, 50)
	if len(active) != 0 {
		t.Fatalf("expected no active games, got %d", len(active))
	}

	if err := s.DeleteGame(ctx, game.ID); err != nil {
		t.Fatalf("delete game: %v", err)
	}
	if _, err := s.GetGame(ctx, game.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if n, _ := s.CountPlayerGames(ctx, ids[0]); n != 0 {
		t.Fatalf("expected seats removed with the game, got %d", n)
	}
}

func TestMemoryStoreListGamesLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ids := seedPlayers(t, s, "Ann", "Bob")

	for i := 0; i < 3; i++ {
		if err := s.CreateGame(ctx, &models.Game{GameType: "gin_rummy", IsActive: true}, ids); err != nil {
			t.Fatalf("create game: %v", err)
		}
	}
	games, err := s.ListGames(ctx, false, 2)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(games))
	}
	if games[0].ID < games[1].ID {
		t.Fatalf("expected newest game first, got %d then %d", games[0].ID, games[1].ID)
	}
}
