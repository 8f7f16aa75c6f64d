// Package scoring holds the card game rules: which way a game is won, when
// it ends, and how round scores fold into totals. Everything here is pure.
package scoring

import (
	"fmt"
	"strings"
)

type GameType string

const (
	FiveCrowns GameType = "five_crowns"
	Rum500     GameType = "rum_500"
	GinRummy   GameType = "gin_rummy"
)

// Direction says whether the lowest or the highest total wins.
type Direction int

const (
	LowWins Direction = iota
	HighWins
)

func (d Direction) String() string {
	if d == HighWins {
		return "high_wins"
	}
	return "low_wins"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const FiveCrownsRounds = 11

type Rules struct {
	Type                GameType  `json:"key"`
	Label               string    `json:"label"`
	Direction           Direction `json:"scoring"`
	RequiresTargetScore bool      `json:"requires_target_score"`

	// RoundLimit is zero when the game has no fixed number of rounds.
	RoundLimit int `json:"round_limit,omitempty"`
}

var registry = []Rules{
	{Type: FiveCrowns, Label: "Five Crowns", Direction: LowWins, RoundLimit: FiveCrownsRounds},
	{Type: Rum500, Label: "500 Rum", Direction: HighWins, RequiresTargetScore: true},
	{Type: GinRummy, Label: "Gin Rummy", Direction: HighWins, RequiresTargetScore: true},
}

// aliases maps keys used by older clients onto registry keys.
var aliases = map[string]GameType{
	"500_rum": Rum500,
}

func Lookup(t GameType) (Rules, error) {
	for _, r := range registry {
		if r.Type == t {
			return r, nil
		}
	}
	return Rules{}, fmt.Errorf("%w: %q", ErrUnknownGameType, string(t))
}

// MustLookup is for game types that were already validated on the way in.
// An unknown type at this point is a programming error.
func MustLookup(t GameType) Rules {
	r, err := Lookup(t)
	if err != nil {
		panic(err)
	}
	return r
}

func ParseGameType(s string) (GameType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	t := GameType(key)
	if _, err := Lookup(t); err != nil {
		return "", err
	}
	return t, nil
}

// AllRules returns the registry in display order.
func AllRules() []Rules {
	return append([]Rules(nil), registry...)
}

func (r Rules) LowWins() bool {
	return r.Direction == LowWins
}
