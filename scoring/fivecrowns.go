package scoring

import (
	"fmt"
	"strconv"
)

// Deal is the Five Crowns hand size and wild rank for one round.
type Deal struct {
	CardsDealt   int    `json:"cards_dealt"`
	WildCardRank string `json:"wild_card"`
}

var faceRanks = map[int]string{11: "J", 12: "Q", 13: "K"}

// WildCardAndDeal derives the deal for a Five Crowns round. Round 1 deals
// three cards with threes wild; round 11 deals thirteen with kings wild.
func WildCardAndDeal(roundNumber int) (Deal, error) {
	if roundNumber < 1 || roundNumber > FiveCrownsRounds {
		return Deal{}, fmt.Errorf("%w: %d not in 1-%d", ErrRoundOutOfRange, roundNumber, FiveCrownsRounds)
	}

	cards := roundNumber + 2
	rank := strconv.Itoa(cards)
	if face, ok := faceRanks[cards]; ok {
		rank = face
	}
	return Deal{CardsDealt: cards, WildCardRank: rank}, nil
}
