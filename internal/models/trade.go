package models

import (
	"time"

	"gorm.io/gorm"
)

// TradeRecord represents one logged trade in the database.
// The streak, win rate, and state columns are derived by the analyzer at
// append time; State is frozen once written and never recomputed.
type TradeRecord struct {
	gorm.Model
	RecordedAt    time.Time `json:"recorded_at"`
	Outcome       bool      `json:"outcome"` // true = win
	Gain          float64   `json:"gain,omitempty"`
	WinningStreak int       `json:"winning_streak"`
	LosingStreak  int       `json:"losing_streak"`
	WinRate       float64   `json:"win_rate"`
	State         string    `json:"state"` // "Good", "Neutral" or "Bad"
}
