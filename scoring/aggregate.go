package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// PlayerID matches the primary key type of persisted players.
type PlayerID = uint

// Scores holds one round: player id to points.
type Scores map[PlayerID]int

// WentOut marks which players went out in a round. It never affects totals.
type WentOut map[PlayerID]bool

// Game is the scoring view of a game. Rounds are keyed by 1-based round
// number; WentOut may be nil.
type Game struct {
	Type        GameType
	Players     []PlayerID
	TargetScore *int
	Rounds      map[int]Scores
	WentOut     map[int]WentOut
	Active      bool
}

// NewGame returns a game with no rounds recorded.
func NewGame(t GameType, players []PlayerID, targetScore *int) Game {
	return Game{
		Type:        t,
		Players:     append([]PlayerID(nil), players...),
		TargetScore: targetScore,
		Rounds:      map[int]Scores{},
		WentOut:     map[int]WentOut{},
		Active:      true,
	}
}

// ComputeTotals sums each player's points over every round. A player absent
// from a round contributes nothing for it.
func ComputeTotals(players []PlayerID, rounds map[int]Scores) map[PlayerID]int {
	totals := make(map[PlayerID]int, len(players))
	for _, id := range players {
		totals[id] = 0
	}
	for _, round := range rounds {
		for _, id := range players {
			totals[id] += round[id]
		}
	}
	return totals
}

// CurrentRound is the next round to be played: one past the highest recorded
// round, or 1 for a fresh game.
func CurrentRound(rounds map[int]Scores) int {
	highest := 0
	for n := range rounds {
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

func (g Game) Totals() map[PlayerID]int {
	return ComputeTotals(g.Players, g.Rounds)
}

func (g Game) CurrentRound() int {
	return CurrentRound(g.Rounds)
}

// ValidateRoundSubmission checks a submission against the game without
// changing it.
func ValidateRoundSubmission(g Game, roundNumber int, scores Scores) error {
	if !g.Active {
		return ErrGameAlreadyCompleted
	}
	if expected := g.CurrentRound(); roundNumber != expected {
		return &RoundMismatchError{Expected: expected, Got: roundNumber}
	}

	seated := make(map[PlayerID]bool, len(g.Players))
	var missing []PlayerID
	for _, id := range g.Players {
		seated[id] = true
		if _, ok := scores[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &IncompleteScoresError{Missing: missing}
	}
	for id := range scores {
		if !seated[id] {
			return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
		}
	}
	return nil
}

// ParseScore decodes one JSON score value. Any JSON number whose value is
// a whole number in int range is accepted, so 10.0 and 1e3 are valid;
// strings, booleans, null and fractional values are rejected.
func ParseScore(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidScoreValue, string(raw))
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidScoreValue, string(raw))
	}
	if i, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
		return int(i), nil
	}

	if approx, err := strconv.ParseFloat(n.String(), 64); err != nil || math.Abs(approx) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidScoreValue, string(raw))
	}
	f, _, err := big.ParseFloat(n.String(), 10, 512, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidScoreValue, string(raw))
	}
	i, acc := f.Int64()
	if acc != big.Exact || i > math.MaxInt || i < math.MinInt {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidScoreValue, string(raw))
	}
	return int(i), nil
}
