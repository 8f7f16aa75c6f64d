package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"cardscore/cache"
	"cardscore/models"
	"cardscore/scoring"
	"cardscore/store"
)

const (
	MinPlayers    = 2
	MaxPlayers    = 6
	listGameLimit = 50

	// ActiveGameCacheTTL caps how long an in-progress game stays cached. A
	// read racing a round submission can re-cache the previous state, and
	// only in-progress states can go stale.
	ActiveGameCacheTTL = 30 * time.Second
)

type GameService struct {
	store    store.Store
	cache    cache.Cache
	tieBreak scoring.TieBreak
	cacheTTL time.Duration
}

func NewGameService(st store.Store, c cache.Cache, tieBreak scoring.TieBreak, cacheTTL time.Duration) *GameService {
	if c == nil {
		c = cache.Nop{}
	}
	return &GameService{
		store:    st,
		cache:    c,
		tieBreak: tieBreak,
		cacheTTL: cacheTTL,
	}
}

type CreateGameRequest struct {
	GameType    string `json:"game_type" binding:"required"`
	PlayerIDs   []uint `json:"player_ids" binding:"required"`
	TargetScore *int   `json:"target_score"`
}

// SubmitRoundRequest carries raw score values so that non-integers can be
// rejected with scoring.ErrInvalidScoreValue instead of a bind error.
type SubmitRoundRequest struct {
	Round   *int                       `json:"round" binding:"required"`
	Scores  map[string]json.RawMessage `json:"scores" binding:"required"`
	WentOut map[string]bool            `json:"went_out"`
}

func (s *GameService) CreateGame(ctx context.Context, req *CreateGameRequest) (*GameState, error) {
	gameType, err := scoring.ParseGameType(req.GameType)
	if err != nil {
		return nil, err
	}
	rules := scoring.MustLookup(gameType)

	if err := s.validatePlayers(ctx, req.PlayerIDs); err != nil {
		return nil, err
	}

	var target *int
	switch {
	case rules.RequiresTargetScore && req.TargetScore == nil:
		return nil, fmt.Errorf("%w: %s requires a target score", ErrInvalidTargetScore, rules.Label)
	case rules.RequiresTargetScore && *req.TargetScore <= 0:
		return nil, fmt.Errorf("%w: must be positive", ErrInvalidTargetScore)
	case !rules.RequiresTargetScore && req.TargetScore != nil:
		return nil, fmt.Errorf("%w: %s does not use a target score", ErrInvalidTargetScore, rules.Label)
	case rules.RequiresTargetScore:
		v := *req.TargetScore
		target = &v
	}

	game := models.Game{
		GameType:    string(gameType),
		TargetScore: target,
		IsActive:    true,
		DatePlayed:  time.Now().UTC(),
	}
	if err := s.store.CreateGame(ctx, &game, req.PlayerIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlayers, err)
		}
		return nil, fmt.Errorf("create game: %w", err)
	}

	log.Printf("Game %d created: %s with %d players", game.ID, gameType, len(req.PlayerIDs))
	return s.GetGame(ctx, game.ID)
}

func (s *GameService) validatePlayers(ctx context.Context, ids []uint) error {
	if len(ids) < MinPlayers || len(ids) > MaxPlayers {
		return fmt.Errorf("%w: must have %d-%d players", ErrInvalidPlayers, MinPlayers, MaxPlayers)
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: player %d listed twice", ErrInvalidPlayers, id)
		}
		seen[id] = true
	}

	players, err := s.store.PlayersByID(ctx, ids)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	if len(players) != len(ids) {
		return fmt.Errorf("%w: one or more invalid player IDs", ErrInvalidPlayers)
	}
	return nil
}

// GetGame returns the full state of a game, served from the cache when
// possible.
func (s *GameService) GetGame(ctx context.Context, id uint) (*GameState, error) {
	var cached GameState
	if ok, err := s.cache.Get(ctx, cache.GameKey(id), &cached); err != nil {
		log.Printf("Cache error reading game %d: %v", id, err)
	} else if ok {
		return &cached, nil
	}

	return s.loadGame(ctx, id)
}

// loadGame renders a game from the store and writes it to the cache,
// replacing whatever entry is there.
func (s *GameService) loadGame(ctx context.Context, id uint) (*GameState, error) {
	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, notFound(err, "game %d", id)
	}

	state, err := renderGameState(game, s.tieBreak)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.GameKey(id), state, gameCacheTTL(state, s.cacheTTL)); err != nil {
		log.Printf("Failed to cache game %d: %v", id, err)
	}
	return state, nil
}

func gameCacheTTL(state *GameState, ttl time.Duration) time.Duration {
	if state.IsActive && (ttl <= 0 || ttl > ActiveGameCacheTTL) {
		return ActiveGameCacheTTL
	}
	return ttl
}

func (s *GameService) ListGames(ctx context.Context, activeOnly bool) ([]GameSummary, error) {
	games, err := s.store.ListGames(ctx, activeOnly, listGameLimit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	summaries := make([]GameSummary, 0, len(games))
	for i := range games {
		summary, err := summarize(&games[i])
		if err != nil {
			log.Printf("Skipping game in listing: %v", err)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SubmitRound records one round of scores, then ends the game if its
// termination rule is met.
func (s *GameService) SubmitRound(ctx context.Context, gameID uint, req *SubmitRoundRequest) (*GameState, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, notFound(err, "game %d", gameID)
	}
	if _, err := scoring.Lookup(scoring.GameType(game.GameType)); err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}

	current := game.ToScoring()
	if !current.Active {
		return nil, scoring.ErrGameAlreadyCompleted
	}

	scores, wentOut, err := parseSubmission(req)
	if err != nil {
		return nil, err
	}

	round := *req.Round
	next, outcome, err := scoring.ApplyRound(current, round, scores, wentOut, s.tieBreak)
	if err != nil {
		return nil, err
	}

	rows := models.RoundScores(gameID, round, next.Rounds[round], next.WentOut[round])
	if err := s.store.SaveRound(ctx, gameID, rows, next.Active); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, &scoring.RoundMismatchError{Expected: round + 1, Got: round}
		case errors.Is(err, store.ErrNotFound):
			return nil, notFound(err, "game %d", gameID)
		}
		return nil, fmt.Errorf("save round %d: %w", round, err)
	}

	s.invalidate(ctx, gameID)
	if outcome.Completed {
		log.Printf("Game %d finished after round %d, winners: %v", gameID, round, outcome.Winners)
	}
	return s.loadGame(ctx, gameID)
}

func parseSubmission(req *SubmitRoundRequest) (scoring.Scores, scoring.WentOut, error) {
	scores := make(scoring.Scores, len(req.Scores))
	for key, raw := range req.Scores {
		id, err := parsePlayerKey(key)
		if err != nil {
			return nil, nil, err
		}
		points, err := scoring.ParseScore(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("player %d: %w", id, err)
		}
		scores[id] = points
	}

	wentOut := make(scoring.WentOut, len(req.WentOut))
	for key, out := range req.WentOut {
		id, err := parsePlayerKey(key)
		if err != nil {
			return nil, nil, err
		}
		wentOut[id] = out
	}
	return scores, wentOut, nil
}

func parsePlayerKey(key string) (uint, error) {
	id, err := strconv.ParseUint(key, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", scoring.ErrUnknownPlayer, key)
	}
	return uint(id), nil
}

func (s *GameService) DeleteGame(ctx context.Context, id uint) error {
	if err := s.store.DeleteGame(ctx, id); err != nil {
		return notFound(err, "game %d", id)
	}
	s.invalidate(ctx, id)
	log.Printf("Game %d deleted", id)
	return nil
}

func (s *GameService) invalidate(ctx context.Context, gameID uint) {
	if err := s.cache.Delete(ctx, cache.GameKey(gameID), cache.LeaderboardKey); err != nil {
		log.Printf("Failed to invalidate cache for game %d: %v", gameID, err)
	}
}
