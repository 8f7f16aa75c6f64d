package models

import (
	"sort"

	"cardscore/scoring"
)

// SeatedPlayerIDs returns the game's player ids in seat order.
func (g *Game) SeatedPlayerIDs() []uint {
	seats := append([]GamePlayer(nil), g.GamePlayers...)
	sort.SliceStable(seats, func(i, j int) bool { return seats[i].SeatOrder < seats[j].SeatOrder })

	ids := make([]uint, len(seats))
	for i, gp := range seats {
		ids[i] = gp.PlayerID
	}
	return ids
}

// ToScoring rebuilds the scoring view of a game from its stored rows.
// GamePlayers and Scores must be loaded.
func (g *Game) ToScoring() scoring.Game {
	sg := scoring.NewGame(scoring.GameType(g.GameType), g.SeatedPlayerIDs(), g.TargetScore)
	sg.Active = g.IsActive

	for _, s := range g.Scores {
		round, ok := sg.Rounds[s.RoundNumber]
		if !ok {
			round = scoring.Scores{}
			sg.Rounds[s.RoundNumber] = round
		}
		round[s.PlayerID] = s.Points

		if s.WentOut {
			flags, ok := sg.WentOut[s.RoundNumber]
			if !ok {
				flags = scoring.WentOut{}
				sg.WentOut[s.RoundNumber] = flags
			}
			flags[s.PlayerID] = true
		}
	}
	return sg
}

// RoundScores turns one recorded round into score rows for persistence.
func RoundScores(gameID uint, roundNumber int, scores scoring.Scores, wentOut scoring.WentOut) []Score {
	ids := make([]uint, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]Score, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, Score{
			GameID:      gameID,
			PlayerID:    id,
			RoundNumber: roundNumber,
			Points:      scores[id],
			WentOut:     wentOut[id],
		})
	}
	return rows
}
