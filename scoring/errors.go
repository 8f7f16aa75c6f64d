package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownGameType      = errors.New("unknown game type")
	ErrRoundNumberMismatch  = errors.New("round number mismatch")
	ErrIncompleteScores     = errors.New("scores missing for one or more players")
	ErrInvalidScoreValue    = errors.New("score must be an integer")
	ErrGameAlreadyCompleted = errors.New("game is already finished")
	ErrRoundOutOfRange      = errors.New("round out of range")
	ErrUnknownPlayer        = errors.New("player is not part of this game")
)

// RoundMismatchError reports an out-of-order or duplicate round submission.
type RoundMismatchError struct {
	Expected int
	Got      int
}

func (e *RoundMismatchError) Error() string {
	return fmt.Sprintf("round number mismatch: expected round %d, got %d", e.Expected, e.Got)
}

func (e *RoundMismatchError) Is(target error) bool {
	return target == ErrRoundNumberMismatch
}

// IncompleteScoresError lists the players that have no entry in a submission.
type IncompleteScoresError struct {
	Missing []PlayerID
}

func (e *IncompleteScoresError) Error() string {
	return "must submit scores for all players in the game: missing " + joinIDs(e.Missing)
}

func (e *IncompleteScoresError) Is(target error) bool {
	return target == ErrIncompleteScores
}

func joinIDs(ids []PlayerID) string {
	sorted := append([]PlayerID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
