package models

import (
	"time"
)

type Score struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	GameID      uint      `json:"game_id" gorm:"not null;uniqueIndex:unique_round_score"`
	PlayerID    uint      `json:"player_id" gorm:"not null;uniqueIndex:unique_round_score"`
	RoundNumber int       `json:"round_number" gorm:"not null;uniqueIndex:unique_round_score"`
	Points      int       `json:"points" gorm:"not null"`
	WentOut     bool      `json:"went_out" gorm:"not null;default:false"` // informational only
	CreatedAt   time.Time `json:"created_at"`
}
