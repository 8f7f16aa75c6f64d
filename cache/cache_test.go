package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type state struct {
		ID     uint           `json:"id"`
		Totals map[string]int `json:"totals"`
	}
	if err := m.Set(ctx, GameKey(7), state{ID: 7, Totals: map[string]int{"1": 12}}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got state
	ok, err := m.Get(ctx, GameKey(7), &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.ID != 7 || got.Totals["1"] != 12 {
		t.Fatalf("unexpected value %+v", got)
	}

	if err := m.Delete(ctx, GameKey(7), LeaderboardKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := m.Get(ctx, GameKey(7), &got); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, LeaderboardKey, []int{1, 2}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	now = now.Add(2 * time.Minute)

	var got []int
	if ok, _ := m.Get(ctx, LeaderboardKey, &got); ok {
		t.Fatal("expected expired entry to miss")
	}
	if m.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, got %d entries", m.Len())
	}
}

func TestNopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	if err := c.Set(ctx, "k", 1, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	var v int
	if ok, err := c.Get(ctx, "k", &v); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestGameKey(t *testing.T) {
	if got := GameKey(42); got != "game:42" {
		t.Fatalf("expected game:42, got %s", got)
	}
}
