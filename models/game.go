package models

import (
	"time"
)

type Game struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	GameType    string    `json:"game_type" gorm:"not null;size:50"`
	TargetScore *int      `json:"target_score"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	DatePlayed  time.Time `json:"date_played" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	GamePlayers []GamePlayer `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
	Scores      []Score      `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

// GamePlayer seats a player in a game. SeatOrder is the turn and display order.
type GamePlayer struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	GameID    uint `json:"game_id" gorm:"not null;uniqueIndex:unique_game_player"`
	PlayerID  uint `json:"player_id" gorm:"not null;uniqueIndex:unique_game_player;index"`
	SeatOrder int  `json:"seat_order" gorm:"not null;default:0"`

	Player Player `json:"player,omitempty"`
}
