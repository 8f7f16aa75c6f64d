// Package cache keeps rendered game state and the leaderboard out of the
// database on repeated reads.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores JSON-encodable values. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const LeaderboardKey = "leaderboard"

func GameKey(id uint) string {
	return fmt.Sprintf("game:%d", id)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) {
	return false, nil
}

func (Nop) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (Nop) Delete(context.Context, ...string) error {
	return nil
}
