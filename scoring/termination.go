package scoring

import (
	"fmt"
	"strings"
)

// TieBreak decides who wins when several players share the winning total.
type TieBreak int

const (
	// TieBreakSeatOrder awards the win to the first tied player in seat order.
	TieBreakSeatOrder TieBreak = iota
	// TieBreakShared makes every tied player a winner.
	TieBreakShared
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "seat", "seat_order":
		return TieBreakSeatOrder, nil
	case "shared":
		return TieBreakShared, nil
	default:
		return TieBreakSeatOrder, fmt.Errorf("unknown tie break policy %q", s)
	}
}

func (t TieBreak) String() string {
	if t == TieBreakShared {
		return "shared"
	}
	return "seat"
}

// Outcome is the result of evaluating a game after a round.
type Outcome struct {
	Completed bool

	// Winners is empty while the game is in progress.
	Winners []PlayerID
}

// Evaluate reports whether the game has reached its end condition given the
// rounds recorded so far. It does not look at g.Active.
func Evaluate(g Game, policy TieBreak) Outcome {
	rules := MustLookup(g.Type)
	totals := g.Totals()

	if !finished(rules, g, totals) {
		return Outcome{}
	}
	return Outcome{
		Completed: true,
		Winners:   Winners(rules, g.Players, totals, policy),
	}
}

func finished(rules Rules, g Game, totals map[PlayerID]int) bool {
	if rules.RoundLimit > 0 {
		return g.CurrentRound()-1 >= rules.RoundLimit
	}
	if g.TargetScore == nil {
		return false
	}
	for _, id := range g.Players {
		if totals[id] >= *g.TargetScore {
			return true
		}
	}
	return false
}

// Winners picks the best total in the rules' direction among players, in
// seat order. With TieBreakSeatOrder at most one id is returned.
func Winners(rules Rules, players []PlayerID, totals map[PlayerID]int, policy TieBreak) []PlayerID {
	var winners []PlayerID
	var best int
	for _, id := range players {
		total := totals[id]
		switch {
		case len(winners) == 0 || better(rules, total, best):
			winners = []PlayerID{id}
			best = total
		case total == best:
			winners = append(winners, id)
		}
	}
	if policy == TieBreakSeatOrder && len(winners) > 1 {
		winners = winners[:1]
	}
	return winners
}

func better(rules Rules, total, best int) bool {
	if rules.LowWins() {
		return total < best
	}
	return total > best
}

// ApplyRound validates a submission and returns the game with the round
// appended and the termination outcome. g itself is left untouched.
func ApplyRound(g Game, roundNumber int, scores Scores, wentOut WentOut, policy TieBreak) (Game, Outcome, error) {
	if err := ValidateRoundSubmission(g, roundNumber, scores); err != nil {
		return g, Outcome{}, err
	}
	for id := range wentOut {
		if _, ok := scores[id]; !ok {
			return g, Outcome{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
		}
	}

	next := g.clone()
	round := make(Scores, len(scores))
	for id, points := range scores {
		round[id] = points
	}
	next.Rounds[roundNumber] = round

	if len(wentOut) > 0 {
		flags := make(WentOut, len(wentOut))
		for id, out := range wentOut {
			if out {
				flags[id] = true
			}
		}
		next.WentOut[roundNumber] = flags
	}

	outcome := Evaluate(next, policy)
	if outcome.Completed {
		next.Active = false
	}
	return next, outcome, nil
}

func (g Game) clone() Game {
	out := g
	out.Players = append([]PlayerID(nil), g.Players...)
	out.Rounds = make(map[int]Scores, len(g.Rounds)+1)
	for n, s := range g.Rounds {
		out.Rounds[n] = s
	}
	out.WentOut = make(map[int]WentOut, len(g.WentOut)+1)
	for n, w := range g.WentOut {
		out.WentOut[n] = w
	}
	return out
}
