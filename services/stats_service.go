package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"cardscore/cache"
	"cardscore/scoring"
	"cardscore/store"
)

type LeaderboardEntry struct {
	PlayerID    uint    `json:"player_id"`
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
}

type StatsService struct {
	store    store.Store
	cache    cache.Cache
	tieBreak scoring.TieBreak
	cacheTTL time.Duration
}

func NewStatsService(st store.Store, c cache.Cache, tieBreak scoring.TieBreak, cacheTTL time.Duration) *StatsService {
	if c == nil {
		c = cache.Nop{}
	}
	return &StatsService{store: st, cache: c, tieBreak: tieBreak, cacheTTL: cacheTTL}
}

// Leaderboard tallies wins and losses over completed games. Wins are derived
// from the scores each time, never stored.
func (s *StatsService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var cached []LeaderboardEntry
	if ok, err := s.cache.Get(ctx, cache.LeaderboardKey, &cached); err != nil {
		log.Printf("Cache error reading leaderboard: %v", err)
	} else if ok {
		return cached, nil
	}

	games, err := s.store.ListCompletedGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completed games: %w", err)
	}

	stats := make(map[uint]*LeaderboardEntry)
	for i := range games {
		game := &games[i]
		if len(game.Scores) == 0 {
			continue
		}
		rules, err := scoring.Lookup(scoring.GameType(game.GameType))
		if err != nil {
			log.Printf("Leaderboard skipping game %d: %v", game.ID, err)
			continue
		}

		sg := game.ToScoring()
		winners := make(map[uint]bool)
		for _, id := range scoring.Winners(rules, sg.Players, sg.Totals(), s.tieBreak) {
			winners[id] = true
		}

		for _, gp := range game.GamePlayers {
			entry, ok := stats[gp.PlayerID]
			if !ok {
				entry = &LeaderboardEntry{PlayerID: gp.PlayerID, Name: gp.Player.Name}
				stats[gp.PlayerID] = entry
			}
			entry.GamesPlayed++
			if winners[gp.PlayerID] {
				entry.Wins++
			}
		}
	}

	board := make([]LeaderboardEntry, 0, len(stats))
	for _, entry := range stats {
		entry.Losses = entry.GamesPlayed - entry.Wins
		entry.WinRate = winRate(entry.Wins, entry.GamesPlayed)
		board = append(board, *entry)
	}
	sort.Slice(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return a.Name < b.Name
	})

	if err := s.cache.Set(ctx, cache.LeaderboardKey, board, s.cacheTTL); err != nil {
		log.Printf("Failed to cache leaderboard: %v", err)
	}
	return board, nil
}

// winRate is a percentage rounded to one decimal place.
func winRate(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(played)*1000) / 10
}
