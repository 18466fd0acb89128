package model

import "time"

// Player is a registered participant. The admin account is a Player too.
type Player struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         Role      `json:"role" bson:"role"`
	LastKillTime time.Time `json:"-" bson:"lastKillTime,omitempty"` // Imposters only
	Score        int       `json:"score" bson:"score"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// PlayerSummary is the public view of a player (no role, no score)
type PlayerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ScoreEntry pairs a username with its score after an adjustment
type ScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// LeaderboardEntry is a dense-ranked score line
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// Location is the last coordinate a player reported
type Location struct {
	Username  string    `json:"username"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterRequest is the request body for player registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LocationRequest is the request body for a location report
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// NearbyPlayer is an alive player within kill range of the caller
type NearbyPlayer struct {
	Username string  `json:"username"`
	Meters   float64 `json:"meters"`
}
