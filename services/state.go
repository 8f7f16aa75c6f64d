package services

import (
	"fmt"
	"sort"
	"time"

	"cardscore/models"
	"cardscore/scoring"
)

type GamePlayer struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SeatOrder int    `json:"seat_order"`
}

// GameSummary is the list view of a game.
type GameSummary struct {
	ID          uint             `json:"id"`
	GameType    scoring.GameType `json:"game_type"`
	Label       string           `json:"label"`
	TargetScore *int             `json:"target_score"`
	IsActive    bool             `json:"is_active"`
	DatePlayed  time.Time        `json:"date_played"`
	Players     []GamePlayer     `json:"players"`
}

// GameState is the full view of a game with rounds and derived totals.
type GameState struct {
	GameSummary
	Rounds       map[int]scoring.Scores `json:"rounds"`
	WentOut      map[int][]uint         `json:"went_out,omitempty"`
	Totals       map[uint]int           `json:"totals"`
	CurrentRound int                    `json:"current_round"`

	// WildCard and CardsDealt are set for active Five Crowns games.
	WildCard   string `json:"wild_card,omitempty"`
	CardsDealt int    `json:"cards_dealt,omitempty"`
	WinnerIDs  []uint `json:"winner_ids,omitempty"`
}

func summarize(game *models.Game) (GameSummary, error) {
	rules, err := scoring.Lookup(scoring.GameType(game.GameType))
	if err != nil {
		return GameSummary{}, fmt.Errorf("game %d: %w", game.ID, err)
	}

	players := make([]GamePlayer, 0, len(game.GamePlayers))
	for _, gp := range game.GamePlayers {
		players = append(players, GamePlayer{
			ID:        gp.PlayerID,
			Name:      gp.Player.Name,
			SeatOrder: gp.SeatOrder,
		})
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].SeatOrder < players[j].SeatOrder })

	return GameSummary{
		ID:          game.ID,
		GameType:    rules.Type,
		Label:       rules.Label,
		TargetScore: game.TargetScore,
		IsActive:    game.IsActive,
		DatePlayed:  game.DatePlayed,
		Players:     players,
	}, nil
}

func renderGameState(game *models.Game, policy scoring.TieBreak) (*GameState, error) {
	summary, err := summarize(game)
	if err != nil {
		return nil, err
	}
	rules := scoring.MustLookup(summary.GameType)
	sg := game.ToScoring()
	totals := sg.Totals()

	state := &GameState{
		GameSummary:  summary,
		Rounds:       sg.Rounds,
		Totals:       totals,
		CurrentRound: sg.CurrentRound(),
	}

	if len(sg.WentOut) > 0 {
		state.WentOut = make(map[int][]uint, len(sg.WentOut))
		for round, flags := range sg.WentOut {
			for _, id := range sg.Players {
				if flags[id] {
					state.WentOut[round] = append(state.WentOut[round], id)
				}
			}
		}
	}

	if game.IsActive {
		if rules.Type == scoring.FiveCrowns {
			deal, err := scoring.WildCardAndDeal(state.CurrentRound)
			if err == nil {
				state.WildCard = deal.WildCardRank
				state.CardsDealt = deal.CardsDealt
			}
		}
	} else if len(sg.Rounds) > 0 {
		state.WinnerIDs = scoring.Winners(rules, sg.Players, totals, policy)
	}
	return state, nil
}
